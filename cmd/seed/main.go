package main

import (
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dashunya17/CookingBenefits/config"
	"github.com/dashunya17/CookingBenefits/internal/database"
	"github.com/dashunya17/CookingBenefits/internal/models"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := seedUsers(db); err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}
	if err := seedCatalog(db); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	log.Println("seeding complete")
}

func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("users already present, skipping user seed")
		return nil
	}

	users := []struct {
		email    string
		password string
		fullName string
		role     string
	}{
		{"user1@gmail.com", "user1Pass", "User One", models.RoleUser},
		{"user2@gmail.com", "user2Pass", "User Two", models.RoleUser},
		{"admin@gmail.com", "adminPass", "Administrator", models.RoleAdmin},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{
			ID:           uuid.New(),
			Email:        u.email,
			PasswordHash: string(hashed),
			FullName:     u.fullName,
			Role:         u.role,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	log.Printf("created %d users", len(users))
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("products already present, skipping catalog seed")
		return nil
	}

	productDefs := []struct {
		name     string
		category string
	}{
		{"Eggs", "dairy"},
		{"Milk", "dairy"},
		{"Butter", "dairy"},
		{"Flour", "baking"},
		{"Sugar", "baking"},
		{"Salt", "spices"},
		{"Chicken breast", "meat"},
		{"Rice", "grains"},
		{"Onion", "vegetables"},
		{"Garlic", "vegetables"},
		{"Tomato", "vegetables"},
		{"Olive oil", "oils"},
	}

	products := make(map[string]uuid.UUID, len(productDefs))
	for _, p := range productDefs {
		product := models.Product{
			ID:       uuid.New(),
			Name:     p.name,
			Category: p.category,
			IsCommon: true,
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		products[p.name] = product.ID
	}
	log.Printf("created %d products", len(productDefs))

	type ingredient struct {
		product  string
		quantity float64
		unit     string
	}
	recipeDefs := []struct {
		title       string
		description string
		steps       string
		minutes     int
		difficulty  string
		servings    int
		category    string
		ingredients []ingredient
	}{
		{
			title:       "Scrambled eggs",
			description: "Soft scrambled eggs with butter.",
			steps:       "Whisk the eggs with salt. Melt butter in a pan over low heat. Pour in the eggs and stir gently until just set.",
			minutes:     10,
			difficulty:  "easy",
			servings:    2,
			category:    "breakfast",
			ingredients: []ingredient{
				{"Eggs", 4, "pcs"},
				{"Butter", 20, "g"},
				{"Salt", 1, "pinch"},
			},
		},
		{
			title:       "Chicken fried rice",
			description: "Weeknight fried rice with chicken and vegetables.",
			steps:       "Cook the rice. Fry diced chicken in oil, add onion and garlic, then the rice and tomato. Season and serve.",
			minutes:     30,
			difficulty:  "medium",
			servings:    4,
			category:    "dinner",
			ingredients: []ingredient{
				{"Chicken breast", 300, "g"},
				{"Rice", 200, "g"},
				{"Onion", 1, "pcs"},
				{"Garlic", 2, "cloves"},
				{"Tomato", 1, "pcs"},
				{"Olive oil", 2, "tbsp"},
			},
		},
		{
			title:       "Simple pancakes",
			description: "Thin pancakes from pantry staples.",
			steps:       "Mix flour, sugar, salt, eggs and milk into a smooth batter. Fry thin pancakes in a buttered pan.",
			minutes:     25,
			difficulty:  "легко",
			servings:    4,
			category:    "breakfast",
			ingredients: []ingredient{
				{"Flour", 200, "g"},
				{"Milk", 400, "ml"},
				{"Eggs", 2, "pcs"},
				{"Sugar", 2, "tbsp"},
				{"Butter", 30, "g"},
			},
		},
	}

	for _, r := range recipeDefs {
		recipe := models.Recipe{
			ID:                 uuid.New(),
			Title:              r.title,
			Description:        r.description,
			CookingSteps:       r.steps,
			CookingTimeMinutes: r.minutes,
			Difficulty:         r.difficulty,
			Servings:           r.servings,
			Category:           r.category,
			IsApproved:         true,
		}
		if err := db.Create(&recipe).Error; err != nil {
			return err
		}
		for _, ing := range r.ingredients {
			row := models.RecipeIngredient{
				ID:        uuid.New(),
				RecipeID:  recipe.ID,
				ProductID: products[ing.product],
				Quantity:  ing.quantity,
				Unit:      ing.unit,
			}
			if err := db.Create(&row).Error; err != nil {
				return err
			}
		}
	}
	log.Printf("created %d recipes", len(recipeDefs))
	return nil
}
