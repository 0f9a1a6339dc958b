package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	"github.com/MahyaarMaleki/storetrack/internal/infra/db"
	infraRepo "github.com/MahyaarMaleki/storetrack/internal/infra/repository"
	"github.com/MahyaarMaleki/storetrack/internal/logger"
	"github.com/MahyaarMaleki/storetrack/internal/usecase"
	auth "github.com/MahyaarMaleki/storetrack/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type options struct {
	Reset         bool
	Count         int
	AdminEmail    string
	AdminPassword string
	BcryptCost    int
	Rand          *rand.Rand
}

func main() {
	reset := flag.Bool("reset", false, "drop all tables before seeding")
	count := flag.Int("count", 100, "number of sample products")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.IsProduction()); err != nil {
		log.Fatal(err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = db.Close(gormDB) }()

	opts := options{
		Reset:         *reset,
		Count:         *count,
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@storetrack.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "password123"),
		BcryptCost:    10,
	}
	if err := run(context.Background(), gormDB, db.TxOptions(cfg), opts); err != nil {
		log.Fatal("database seeding failed: ", err)
	}
	log.Info("database seeded successfully")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// run は管理者と商品サンプルを入れる。Resetなら先に全テーブルを作り直す
func run(ctx context.Context, gormDB *gorm.DB, txOpts *sql.TxOptions, opts options) error {
	if opts.Reset {
		log.Info("clearing existing data...")
		//外部キーの子から順に消す
		if err := gormDB.Migrator().DropTable(
			&model.OrderItem{},
			&model.ProductHistory{},
			&model.Order{},
			&model.Product{},
			&model.Admin{},
		); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	hash, err := auth.NewBcryptPasswordHasher(opts.BcryptCost).Hash(opts.AdminPassword)
	if err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if _, err := infraRepo.NewAdminGormRepository(gormDB).Upsert(ctx, model.Admin{Email: email, HashedPassword: hash}); err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	log.WithField("email", email).Info("admin seeded")

	//入荷履歴も残したいのでusecase経由で作る
	txm := infraRepo.NewTxManagerGorm(gormDB, txOpts)
	productUC := usecase.NewProductUsecase(infraRepo.NewProductGormRepository(gormDB), txm, nil)

	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for i := 0; i < opts.Count; i++ {
		in := sampleProduct(r)
		if _, err := productUC.CreateProduct(ctx, in); err != nil {
			return fmt.Errorf("create product %q: %w", in.Name, err)
		}
	}
	log.WithField("count", opts.Count).Info("products seeded")
	return nil
}

var (
	adjectives = []string{"Ergonomic", "Rustic", "Sleek", "Handmade", "Refined", "Practical", "Gorgeous", "Small", "Modern", "Vintage"}
	materials  = []string{"Cotton", "Steel", "Wooden", "Granite", "Bamboo", "Leather", "Plastic", "Ceramic", "Wool", "Bronze"}
	nouns      = []string{"Chair", "Lamp", "Keyboard", "Shirt", "Notebook", "Mug", "Jacket", "Speaker", "Table", "Backpack"}
)

// supplyは10〜200、priceは100〜50000セント
func sampleProduct(r *rand.Rand) usecase.CreateProductInput {
	supply := int64(10 + r.IntN(191))
	price := int64(100 + r.IntN(49901))
	return usecase.CreateProductInput{
		Name:     adjectives[r.IntN(len(adjectives))] + " " + materials[r.IntN(len(materials))] + " " + nouns[r.IntN(len(nouns))],
		Supply:   &supply,
		Price:    &price,
		Category: model.Categories[r.IntN(len(model.Categories))],
	}
}
