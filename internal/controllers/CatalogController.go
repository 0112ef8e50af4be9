package controllers

import (
	json "github.com/goccy/go-json"
	"lecturebot/internal/catalog"
	"lecturebot/internal/models"
	"lecturebot/internal/providers"
	"net/http"
	"strconv"
)

// CatalogController serves a read-only JSON view of the catalog.
type CatalogController struct {
	logger providers.Logger
	store  catalog.StoreInterface
	cache  providers.CacheProviderInterface
}

type subjectSummary struct {
	Name      string `json:"name"`
	ThreadID  *int   `json:"thread_id"`
	Documents int    `json:"documents"`
	Media     int    `json:"media"`
}

type catalogSummary struct {
	Version  int              `json:"version"`
	Subjects []subjectSummary `json:"subjects"`
	Entries  int              `json:"entries"`
}

type statsResponse struct {
	TotalForwards int `json:"total_forwards"`
	Subjects      int `json:"subjects"`
	Entries       int `json:"entries"`
}

func NewCatalogController(logger providers.Logger, store catalog.StoreInterface, cache providers.CacheProviderInterface) *CatalogController {
	return &CatalogController{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

// serveFromCacheOrCompute keys entries by store revision, so any catalog
// change makes the cached copy unreachable.
func (cc *CatalogController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, name string, compute func(doc *models.Document) any) {
	cacheKey := name + ":" + strconv.FormatUint(cc.store.Revision(), 10)
	if data, ok := cc.cache.Get(cacheKey); ok {
		writeJSON(w, data)
		return
	}

	doc, err := cc.store.View(r.Context())
	if err != nil {
		cc.logger.Errorf(providers.TypeApp, "GET %s: %s", r.URL.Path, err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	gson, err := json.Marshal(compute(doc))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := cc.cache.Set(cacheKey, gson); err != nil {
		cc.logger.Warnf(providers.TypeApp, "GET %s: %s", r.URL.Path, err)
	}
	writeJSON(w, gson)
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (cc *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	cc.serveFromCacheOrCompute(w, r, "catalog", func(doc *models.Document) any {
		names := doc.SubjectNames()
		summary := catalogSummary{
			Version:  doc.Version,
			Subjects: make([]subjectSummary, 0, len(names)),
			Entries:  doc.EntryCount(),
		}
		for _, name := range names {
			s, _ := doc.Subject(name)
			summary.Subjects = append(summary.Subjects, subjectSummary{
				Name:      name,
				ThreadID:  s.ThreadID,
				Documents: s.Count(models.ContentDocument),
				Media:     s.Count(models.ContentMedia),
			})
		}
		return summary
	})
}

func (cc *CatalogController) GetStats(w http.ResponseWriter, r *http.Request) {
	cc.serveFromCacheOrCompute(w, r, "stats", func(doc *models.Document) any {
		return statsResponse{
			TotalForwards: doc.Stats.TotalForwards,
			Subjects:      len(doc.SubjectNames()),
			Entries:       doc.EntryCount(),
		}
	})
}
