// Command seed populates the menu_items table with a starter catalog.
// Item IDs are stable slugs so re-runs update prices in place.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mohamedrafeek-mr/FoodHub/internal/config"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/database"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/logger"
)

type menuItemSeed struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       int64 // paise
	ImageURL    string
}

var menu = []menuItemSeed{
	{"chicken-biryani", "Chicken Biryani", "Basmati rice layered with spiced chicken, served with raita", "biryani", 24900, "https://cdn.foodhub.example/menu/chicken-biryani.jpg"},
	{"mutton-biryani", "Mutton Biryani", "Slow-cooked mutton dum biryani", "biryani", 32900, "https://cdn.foodhub.example/menu/mutton-biryani.jpg"},
	{"veg-biryani", "Veg Biryani", "Seasonal vegetables and basmati rice", "biryani", 17900, "https://cdn.foodhub.example/menu/veg-biryani.jpg"},
	{"butter-chicken", "Butter Chicken", "Tandoori chicken simmered in tomato butter gravy", "curry", 27900, "https://cdn.foodhub.example/menu/butter-chicken.jpg"},
	{"paneer-butter-masala", "Paneer Butter Masala", "Cottage cheese in rich makhani gravy", "curry", 22900, "https://cdn.foodhub.example/menu/paneer-butter-masala.jpg"},
	{"dal-tadka", "Dal Tadka", "Yellow lentils tempered with ghee and cumin", "curry", 14900, "https://cdn.foodhub.example/menu/dal-tadka.jpg"},
	{"garlic-naan", "Garlic Naan", "Tandoor-baked naan brushed with garlic butter", "breads", 5900, "https://cdn.foodhub.example/menu/garlic-naan.jpg"},
	{"butter-naan", "Butter Naan", "Classic tandoori naan with butter", "breads", 4900, "https://cdn.foodhub.example/menu/butter-naan.jpg"},
	{"tandoori-roti", "Tandoori Roti", "Whole wheat roti from the tandoor", "breads", 2900, "https://cdn.foodhub.example/menu/tandoori-roti.jpg"},
	{"chicken-65", "Chicken 65", "Crispy fried chicken tossed with curry leaves and chillies", "starters", 19900, "https://cdn.foodhub.example/menu/chicken-65.jpg"},
	{"paneer-tikka", "Paneer Tikka", "Char-grilled paneer with peppers and onion", "starters", 18900, "https://cdn.foodhub.example/menu/paneer-tikka.jpg"},
	{"masala-dosa", "Masala Dosa", "Crisp dosa with potato masala, sambar and chutneys", "south-indian", 12900, "https://cdn.foodhub.example/menu/masala-dosa.jpg"},
	{"idli-sambar", "Idli Sambar", "Steamed idlis with sambar and coconut chutney", "south-indian", 8900, "https://cdn.foodhub.example/menu/idli-sambar.jpg"},
	{"gulab-jamun", "Gulab Jamun", "Fried milk dumplings in cardamom syrup, 2 pieces", "desserts", 7900, "https://cdn.foodhub.example/menu/gulab-jamun.jpg"},
	{"rasmalai", "Rasmalai", "Chenna discs soaked in saffron milk, 2 pieces", "desserts", 9900, "https://cdn.foodhub.example/menu/rasmalai.jpg"},
	{"masala-chai", "Masala Chai", "Spiced milk tea", "beverages", 3900, "https://cdn.foodhub.example/menu/masala-chai.jpg"},
	{"sweet-lassi", "Sweet Lassi", "Thick churned yogurt drink", "beverages", 6900, "https://cdn.foodhub.example/menu/sweet-lassi.jpg"},
	{"fresh-lime-soda", "Fresh Lime Soda", "Sweet or salted, made to order", "beverages", 4900, "https://cdn.foodhub.example/menu/fresh-lime-soda.jpg"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("foodhub-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgCfg := database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
		MaxConns: 5,
		MinConns: 1,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	const upsert = `
		INSERT INTO menu_items (id, name, description, category, price, available, image_url)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		ON CONFLICT (id) DO UPDATE SET
			name        = EXCLUDED.name,
			description = EXCLUDED.description,
			category    = EXCLUDED.category,
			price       = EXCLUDED.price,
			available   = TRUE,
			image_url   = EXCLUDED.image_url,
			updated_at  = now()`

	for _, item := range menu {
		if _, err := pool.Exec(ctx, upsert,
			item.ID, item.Name, item.Description, item.Category, item.Price, item.ImageURL,
		); err != nil {
			return fmt.Errorf("seed item %s: %w", item.ID, err)
		}
	}

	log.Info("menu seeded", slog.Int("items", len(menu)))
	return nil
}
