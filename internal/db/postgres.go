package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/types"
	"github.com/tripacker/tripacker-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "tripacker", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Trip{},
		&types.Item{},
		&types.Tag{},
		&types.SpecialList{},
		&types.SpecialListItem{},
		&types.GeneratedList{},
		&types.GeneratedListItem{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{"fk_user_tokens_user_id", `
			ALTER TABLE "user_tokens"
			ADD CONSTRAINT "fk_user_tokens_user_id"
			FOREIGN KEY ("user_id") REFERENCES "users"("id")
			ON DELETE CASCADE`},
		{"fk_trips_user_id", `
			ALTER TABLE "trips"
			ADD CONSTRAINT "fk_trips_user_id"
			FOREIGN KEY ("user_id") REFERENCES "users"("id")
			ON DELETE CASCADE`},
		{"fk_special_lists_user_id", `
			ALTER TABLE "special_lists"
			ADD CONSTRAINT "fk_special_lists_user_id"
			FOREIGN KEY ("user_id") REFERENCES "users"("id")
			ON DELETE CASCADE`},
		{"fk_special_list_items_list_id", `
			ALTER TABLE "special_list_items"
			ADD CONSTRAINT "fk_special_list_items_list_id"
			FOREIGN KEY ("special_list_id") REFERENCES "special_lists"("id")
			ON DELETE CASCADE`},
		{"fk_special_list_items_item_id", `
			ALTER TABLE "special_list_items"
			ADD CONSTRAINT "fk_special_list_items_item_id"
			FOREIGN KEY ("item_id") REFERENCES "items"("id")
			ON DELETE CASCADE`},
		{"fk_generated_lists_trip_id", `
			ALTER TABLE "generated_lists"
			ADD CONSTRAINT "fk_generated_lists_trip_id"
			FOREIGN KEY ("trip_id") REFERENCES "trips"("id")
			ON DELETE CASCADE`},
		{"fk_generated_list_items_list_id", `
			ALTER TABLE "generated_list_items"
			ADD CONSTRAINT "fk_generated_list_items_list_id"
			FOREIGN KEY ("generated_list_id") REFERENCES "generated_lists"("id")
			ON DELETE CASCADE`},
		// RESTRICT keeps history intact: a catalog item referenced by any
		// generated list cannot be deleted out from under it.
		{"fk_generated_list_items_item_id", `
			ALTER TABLE "generated_list_items"
			ADD CONSTRAINT "fk_generated_list_items_item_id"
			FOREIGN KEY ("item_id") REFERENCES "items"("id")
			ON DELETE RESTRICT`},
	}
	for _, c := range constraints {
		dropStmt := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, tableForConstraint(c.name), c.name)
		if err := s.db.Exec(dropStmt).Error; err != nil {
			return fmt.Errorf("failed to reset constraint %s: %w", c.name, err)
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func tableForConstraint(name string) string {
	switch name {
	case "fk_user_tokens_user_id":
		return "user_tokens"
	case "fk_trips_user_id":
		return "trips"
	case "fk_special_lists_user_id":
		return "special_lists"
	case "fk_special_list_items_list_id", "fk_special_list_items_item_id":
		return "special_list_items"
	case "fk_generated_lists_trip_id":
		return "generated_lists"
	default:
		return "generated_list_items"
	}
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
