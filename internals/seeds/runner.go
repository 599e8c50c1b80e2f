package seeds

import (
	"log"

	"gorm.io/gorm"

	catalogSeed "leanmaker_backend/internals/seeds/catalog"
)

// RunAllSeeds fills the reference tables. Every seeder skips rows that
// already exist, so running it on every boot is safe.
func RunAllSeeds(db *gorm.DB) {
	log.Println("[INFO] Seeding catalog tables...")

	catalogSeed.SeedAreasFromJSON(db, "internals/seeds/catalog/data_areas.json")
	catalogSeed.SeedTRLLevelsFromJSON(db, "internals/seeds/catalog/data_trl_levels.json")
	catalogSeed.SeedProjectStatusesFromJSON(db, "internals/seeds/catalog/data_project_statuses.json")
	catalogSeed.SeedEvaluationCategoriesFromJSON(db, "internals/seeds/catalog/data_evaluation_categories.json")
	catalogSeed.SeedPlatformSettingsFromJSON(db, "internals/seeds/catalog/data_platform_settings.json")

	log.Println("[INFO] Seeding done.")
}
