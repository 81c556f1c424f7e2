package main

import (
	"encoding/json"
	"log"
	"os"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/model"
	"portal-assistant-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

type seedSection struct {
	section string
	task    string
	steps   []entity.TutorialStep
}

type seedTutorial struct {
	title    string
	language string
	sections []seedSection
}

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Sample Tutorials...")

	tutorials := []seedTutorial{
		{
			title:    "Region Management",
			language: "english",
			sections: []seedSection{
				{
					section: "Add New Region",
					task:    "Create a new region in the portal",
					steps: []entity.TutorialStep{
						{StepNumber: 1, Description: "Click **Regions** in the left menu.", ImagePath: "images/regions_menu.png"},
						{StepNumber: 2, Description: "Press the **Add Region** button at the top right.", ImagePath: "images/add_region.png"},
						{StepNumber: 3, Description: "Fill in the region name and code, then click **Save**."},
					},
				},
				{
					section: "Edit Region",
					task:    "Update the details of an existing region",
					steps: []entity.TutorialStep{
						{StepNumber: 1, Description: "Open the **Regions** list."},
						{StepNumber: 2, Description: "Click the pencil icon next to the region you want to change."},
						{StepNumber: 3, Description: "Adjust the fields and click **Save**."},
					},
				},
			},
		},
		{
			title:    "Distributor Management",
			language: "english",
			sections: []seedSection{
				{
					section: "Create Distributor",
					task:    "Register a new distributor account",
					steps: []entity.TutorialStep{
						{StepNumber: 1, Description: "Go to **Distributors** from the main menu.", ImagePath: "images/distributors_menu.png"},
						{StepNumber: 2, Description: "Click **New Distributor**."},
						{StepNumber: 3, Description: "Enter the company details and assign a region."},
						{StepNumber: 4, Description: "Click **Create** to finish."},
					},
				},
			},
		},
		{
			title:    "Region Management",
			language: "roman_urdu",
			sections: []seedSection{
				{
					section: "Naya Region Add Karna",
					task:    "Portal mein naya region banana",
					steps: []entity.TutorialStep{
						{StepNumber: 1, Description: "Left menu mein **Regions** par click karain.", ImagePath: "images/regions_menu.png"},
						{StepNumber: 2, Description: "Top right par **Add Region** button dabain.", ImagePath: "images/add_region.png"},
						{StepNumber: 3, Description: "Region ka naam aur code likh kar **Save** par click karain."},
					},
				},
			},
		},
	}

	for _, t := range tutorials {
		// Check if a tutorial with this title and language already exists
		var existing model.Tutorial
		if err := db.Where("title = ? AND language = ?", t.title, t.language).First(&existing).Error; err == nil {
			log.Printf("Tutorial '%s' (%s) already exists, skipping...", t.title, t.language)
			continue
		}

		row := model.Tutorial{Title: t.title, Language: t.language, Published: true}
		if err := db.Create(&row).Error; err != nil {
			log.Printf("Error creating tutorial '%s': %v", t.title, err)
			continue
		}

		for i, s := range t.sections {
			stepsJSON, err := json.Marshal(s.steps)
			if err != nil {
				log.Printf("Error marshalling steps for '%s': %v", s.section, err)
				continue
			}
			section := model.TutorialSection{
				TutorialId:      row.Id,
				Section:         s.section,
				TaskDescription: s.task,
				Steps:           datatypes.JSON(stepsJSON),
				SortOrder:       i,
			}
			if err := db.Create(&section).Error; err != nil {
				log.Printf("Error creating section '%s': %v", s.section, err)
			}
		}

		log.Printf("Created tutorial: %s (%s) with %d sections", t.title, t.language, len(t.sections))
	}

	log.Println("Tutorial seeding completed! Run the knowledge sync endpoint to build embeddings.")
}
