package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/envutil"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.GetEnv("POSTGRES_HOST", "localhost")
	port := envutil.GetEnv("POSTGRES_PORT", "5432")
	user := envutil.GetEnv("POSTGRES_USER", "postgres")
	password := envutil.GetEnv("POSTGRES_PASSWORD", "")
	name := envutil.GetEnv("POSTGRES_NAME", "studyhall")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrate creates or updates every table the backend owns. Shared with
// the repo test harness so tests migrate the same schema the server runs on.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.CourseModule{},
		&domain.Lesson{},
		&domain.LessonResource{},
		&domain.Enrollment{},
		&domain.LessonCompletion{},
		&domain.Certificate{},
	)
}
