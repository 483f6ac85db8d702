package handler

import "github.com/gofiber/fiber/v2"

// Handlers groups the API handlers
type Handlers struct {
	Experiments *ExperimentHandler
	Results     *ResultHandler
	Analysis    *AnalysisHandler
	Turk        *TurkHandler
	Exports     *ExportHandler
}

// RegisterAPI mounts the API routes on router. admin guards the routes that
// change or export data.
func RegisterAPI(router fiber.Router, h *Handlers, admin fiber.Handler) {
	router.Get("/experiments", h.Experiments.ListExperiments)
	router.Post("/experiments", admin, h.Experiments.CreateExperiment)
	router.Get("/experiments/:name", h.Experiments.GetExperiment)

	results := router.Group("/experiments/:name/results")
	results.Get("/", h.Results.ListResults)
	results.Post("/", h.Results.SubmitResult)
	results.Get("/:id", h.Results.GetResult)
	results.Delete("/:id", admin, h.Results.DeleteResult)
	results.Get("/:id/pixels", h.Results.GetResultPixels)

	router.Get("/experiments/:name/compare/:id", h.Analysis.Compare)
	router.Get("/experiments/:name/groups", h.Analysis.GroupExperiment)
	router.Get("/groups", h.Analysis.GroupSamples)

	router.Get("/mt", h.Turk.GetPage)
	router.Post("/mt", h.Turk.Submit)

	if h.Exports != nil {
		router.Post("/exports", admin, h.Exports.CreateExport)
	}
}
