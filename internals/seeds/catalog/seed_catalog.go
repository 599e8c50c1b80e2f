package catalog

import (
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"leanmaker_backend/internals/features/catalog/model"
)

func readJSON[T any](filePath string) []T {
	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("[ERROR] seed: cannot read %s: %v", filePath, err)
		return nil
	}
	var data []T
	if err := sonic.Unmarshal(content, &data); err != nil {
		log.Printf("[ERROR] seed: cannot decode %s: %v", filePath, err)
		return nil
	}
	return data
}

type areaSeed struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func SeedAreasFromJSON(db *gorm.DB, filePath string) {
	for _, item := range readJSON[areaSeed](filePath) {
		var existing model.AreaModel
		if err := db.Where("name = ?", item.Name).First(&existing).Error; err == nil {
			continue
		}
		record := model.AreaModel{Name: item.Name, Description: item.Description, IsActive: true}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("[ERROR] seed area %q: %v", item.Name, err)
		}
	}
}

type trlSeed struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MinHours    int    `json:"min_hours"`
}

func SeedTRLLevelsFromJSON(db *gorm.DB, filePath string) {
	for _, item := range readJSON[trlSeed](filePath) {
		var existing model.TRLLevelModel
		if err := db.Where("level = ?", item.Level).First(&existing).Error; err == nil {
			continue
		}
		record := model.TRLLevelModel{
			Level:       item.Level,
			Name:        item.Name,
			Description: item.Description,
			MinHours:    item.MinHours,
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("[ERROR] seed TRL %d: %v", item.Level, err)
		}
	}
}

type statusSeed struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func SeedProjectStatusesFromJSON(db *gorm.DB, filePath string) {
	for _, item := range readJSON[statusSeed](filePath) {
		var existing model.ProjectStatusModel
		if err := db.Where("name = ?", item.Name).First(&existing).Error; err == nil {
			continue
		}
		record := model.ProjectStatusModel{Name: item.Name, Description: item.Description, Color: item.Color}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("[ERROR] seed project status %q: %v", item.Name, err)
		}
	}
}

type categorySeed struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func SeedEvaluationCategoriesFromJSON(db *gorm.DB, filePath string) {
	for _, item := range readJSON[categorySeed](filePath) {
		var existing model.EvaluationCategoryModel
		if err := db.Where("name = ?", item.Name).First(&existing).Error; err == nil {
			continue
		}
		record := model.EvaluationCategoryModel{Name: item.Name, Description: item.Description}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("[ERROR] seed evaluation category %q: %v", item.Name, err)
		}
	}
}

type settingSeed struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

func SeedPlatformSettingsFromJSON(db *gorm.DB, filePath string) {
	for _, item := range readJSON[settingSeed](filePath) {
		var existing model.PlatformSettingModel
		if err := db.Where("key = ?", item.Key).First(&existing).Error; err == nil {
			continue
		}
		record := model.PlatformSettingModel{Key: item.Key, Value: item.Value, Description: item.Description}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("[ERROR] seed setting %q: %v", item.Key, err)
		}
	}
}
