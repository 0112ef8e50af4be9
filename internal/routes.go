package internal

import (
	"lecturebot/internal/controllers"
	"lecturebot/internal/providers"
	"net/http"
)

func InitRoutes(catalogController *controllers.CatalogController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/catalog", http.HandlerFunc(catalogController.GetCatalog))
	routers.Get("/stats", http.HandlerFunc(catalogController.GetStats))
	return routers
}
