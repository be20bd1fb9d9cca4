package FiberConfig

import (
	"log"

	"Mawasem/Config"
	"Mawasem/Controllers"
	"Mawasem/Documents"
	"Mawasem/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, session *Controllers.InvoiceSession) {
	// Entry form and printable preview
	app.Get("/", session.Index)
	app.Get("/invoice/preview", session.Preview)

	api := app.Group("/api")

	// Editing session routes
	api.Get("/invoice", session.GetInvoice)
	api.Post("/invoice/items", session.AddItem)
	api.Delete("/invoice/items/:index", session.DeleteItem)
	api.Post("/invoice/clear", session.ClearAll)
	api.Put("/invoice/header", session.UpdateHeader)
	api.Post("/invoice/import", session.Import)
	api.Post("/invoice/save", session.Save)
	api.Post("/invoice/print", session.Print)

	// Persisted history (read-only, append-only store)
	api.Get("/invoices", session.ListInvoices)
	api.Get("/invoices/:id", session.GetSavedInvoice)
}

func FiberConfig(cfg Config.AppConfig, db *gorm.DB) {
	log.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With",
		MaxAge:       300,
	}))

	renderer := Documents.Renderer{
		OutputDir: cfg.DocumentDir,
		LogoPath:  cfg.LogoPath,
		FontPath:  cfg.FontPath,
	}
	session := Controllers.NewInvoiceSession(db, renderer, cfg.AllowResave)
	SetupRoutes(app, session)

	// Generated invoice documents are served for download
	app.Static("/documents", cfg.DocumentDir)

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
