package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"quizdrill/internal/config"
	"quizdrill/internal/database"
	"quizdrill/internal/repository"
	"quizdrill/internal/service"
)

func main() {
	// Load .env if present so the tool sees the same database as the server
	godotenv.Load()

	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: questions_YYYYMMDD_HHMMSS.json)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	catalogService := service.NewCatalogService(repository.NewQuestionRepository(db))

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(catalogService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(catalogService, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(catalogService *service.CatalogService, outputPath string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("questions_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting question catalog to: %s", outputPath)
	if err := catalogService.ExportToFile(outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	log.Println("Export completed successfully")
}

func handleImport(catalogService *service.CatalogService, inputPath string) {
	log.Printf("Importing question catalog from: %s", inputPath)
	count, err := catalogService.ImportFromFile(inputPath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import completed successfully: %d questions added", count)
}

func printUsage() {
	fmt.Println("Usage: qcatalog <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export    Export the question catalog to a JSON file")
	fmt.Println("  import    Import questions from a JSON file")
	fmt.Println()
	fmt.Println("Run 'qcatalog <command> -h' for command flags.")
}
