package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"food-miniapp-backend/internal/cart"
	"food-miniapp-backend/internal/config"
	"food-miniapp-backend/internal/favorite"
	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/order"
	"food-miniapp-backend/internal/restaurant"
	"food-miniapp-backend/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	ensureSchema(db)
	if cfg.SeedDemoData {
		seedCatalog(db)
	}

	// public routes first so the JWT middleware below never sees them
	telegramService := telegram.NewService(telegram.NewPostgresRepository(db), cfg.BotToken, cfg.InitDataMaxAge)
	telegramHandler := telegram.NewHandler(telegramService, cfg.JWTSecret)
	telegramHandler.RegisterPublicRoutes(app)

	restaurantService := restaurant.NewService(restaurant.NewPostgresRepository(db))
	restaurantHandler := restaurant.NewHandler(restaurantService)
	restaurantHandler.RegisterPublicRoutes(app)

	menuService := menu.NewService(menu.NewPostgresRepository(db))
	menuHandler := menu.NewHandler(menuService)
	menuHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	telegramHandler.RegisterProtectedRoutes(app)

	cartService := cart.NewService(cart.NewPostgresRepository(db), buildMirror(cfg))
	cartHandler := cart.NewHandler(cartService)
	cartHandler.RegisterProtectedRoutes(app)

	orderService := order.NewService(order.NewPostgresRepository(db), cartService)
	orderHandler := order.NewHandler(orderService, menuService)
	orderHandler.RegisterProtectedRoutes(app)

	favoriteHandler := favorite.NewHandler(favorite.NewService(favorite.NewPostgresRepository(db)))
	favoriteHandler.RegisterProtectedRoutes(app)

	log.Printf("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

// buildMirror picks the Redis-backed cart mirror when REDIS_ADDR is set
// and the in-process one otherwise.
func buildMirror(cfg config.Config) cart.Mirror {
	if cfg.RedisAddr == "" {
		return cart.NewInMemoryMirror(cfg.CartMirrorTTL)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return cart.NewRedisMirror(client, cfg.CartMirrorTTL)
}

func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_profiles (
            id TEXT PRIMARY KEY,
            user_key TEXT NOT NULL UNIQUE,
            telegram_id BIGINT NOT NULL,
            telegram_username TEXT,
            first_name TEXT NOT NULL,
            last_name TEXT,
            language_code TEXT,
            is_premium BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS restaurants (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            address TEXT,
            phone TEXT,
            latitude DOUBLE PRECISION,
            longitude DOUBLE PRECISION,
            rating NUMERIC NOT NULL DEFAULT 0,
            delivery_time_min INT NOT NULL DEFAULT 0,
            delivery_time_max INT NOT NULL DEFAULT 0,
            min_order_amount NUMERIC NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS menu_items (
            id TEXT PRIMARY KEY,
            restaurant_id TEXT NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            price NUMERIC NOT NULL,
            image_url TEXT,
            category TEXT,
            is_available BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            id TEXT PRIMARY KEY,
            user_key TEXT NOT NULL,
            menu_item_id TEXT NOT NULL,
            restaurant_id TEXT NOT NULL,
            quantity INT NOT NULL CHECK (quantity >= 1),
            created_at TEXT,
            updated_at TEXT,
            UNIQUE (user_key, menu_item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_key TEXT NOT NULL,
            restaurant_id TEXT NOT NULL,
            total_amount NUMERIC NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'pending',
            delivery_address TEXT,
            delivery_instructions TEXT,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL,
            menu_item_id TEXT NOT NULL,
            quantity INT NOT NULL,
            price NUMERIC NOT NULL,
            created_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS favorites (
            id TEXT PRIMARY KEY,
            user_key TEXT NOT NULL,
            restaurant_id TEXT NOT NULL,
            created_at TEXT,
            UNIQUE (user_key, restaurant_id)
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}

// seedCatalog fills the catalog with a couple of demo restaurants when the
// table is empty so the Mini App has something to render locally.
func seedCatalog(db *sql.DB) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM restaurants`).Scan(&count); err != nil || count > 0 {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	seed := []struct {
		name, address string
		lat, lon      float64
		rating        float64
		minOrder      float64
		menu          []struct {
			name, category string
			price          float64
		}
	}{
		{
			name: "Pizza Palace", address: "пр. Независимости 23", lat: 53.9023, lon: 27.5619,
			rating: 4.8, minOrder: 20,
			menu: []struct {
				name, category string
				price          float64
			}{
				{"Маргарита", "Пицца", 18},
				{"Пепперони", "Пицца", 22},
				{"Лимонад", "Напитки", 5},
			},
		},
		{
			name: "Sushi Master", address: "ул. Ленина 5", lat: 53.8994, lon: 27.5575,
			rating: 4.6, minOrder: 30,
			menu: []struct {
				name, category string
				price          float64
			}{
				{"Филадельфия", "Роллы", 15},
				{"Калифорния", "Роллы", 13},
				{"Мисо суп", "Супы", 7},
			},
		},
	}

	for _, s := range seed {
		restID := uuid.NewString()
		if _, err := db.Exec(`
            INSERT INTO restaurants (id, name, address, latitude, longitude, rating,
                                     delivery_time_min, delivery_time_max, min_order_amount,
                                     is_active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, 30, 60, $7, TRUE, $8, $8)`,
			restID, s.name, s.address, s.lat, s.lon, s.rating, s.minOrder, now); err != nil {
			fmt.Printf("warning: could not seed restaurant %s: %v\n", s.name, err)
			continue
		}
		for _, m := range s.menu {
			if _, err := db.Exec(`
                INSERT INTO menu_items (id, restaurant_id, name, price, category,
                                        is_available, created_at, updated_at)
                VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)`,
				uuid.NewString(), restID, m.name, m.price, m.category, now); err != nil {
				fmt.Printf("warning: could not seed menu item %s: %v\n", m.name, err)
			}
		}
	}
}
