// Package main seeds reference data: the location hierarchy from a YAML
// file and the initial admin account.
//
// Usage:
//
//	seed -file seed/locations.yaml
//
// Seeding is idempotent; existing records are matched by name within
// their parent and reused.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/config"
	"jalsetu.io/jalsetu/internal/domain"
	"jalsetu.io/jalsetu/internal/infrastructure"
	"jalsetu.io/jalsetu/internal/pkg/logger"
)

type seedFile struct {
	States []seedState `yaml:"states"`
	Admin  *seedAdmin  `yaml:"admin"`
}

type seedState struct {
	Name      string         `yaml:"name"`
	Districts []seedDistrict `yaml:"districts"`
}

type seedDistrict struct {
	Name         string            `yaml:"name"`
	SubDistricts []seedSubDistrict `yaml:"subdistricts"`
}

type seedSubDistrict struct {
	Name     string        `yaml:"name"`
	Villages []seedVillage `yaml:"villages"`
}

type seedVillage struct {
	Name   string   `yaml:"name"`
	Canals []string `yaml:"canals"`
}

type seedAdmin struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var file string
	flag.StringVar(&file, "file", "seed/locations.yaml", "path to the seed YAML file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	ctx := context.Background()
	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	if err := seedLocations(db.Gorm.WithContext(ctx), seed.States); err != nil {
		return err
	}
	if seed.Admin != nil {
		if err := seedAdminUser(db.Gorm.WithContext(ctx), *seed.Admin); err != nil {
			return err
		}
	}

	logger.Info("Seed completed")
	return nil
}

func seedLocations(db *gorm.DB, states []seedState) error {
	var created int
	for _, st := range states {
		state := domain.State{Name: st.Name}
		if err := db.Where("name = ?", st.Name).
			Attrs(domain.State{ID: uuid.NewString()}).
			FirstOrCreate(&state).Error; err != nil {
			return fmt.Errorf("seed state %q: %w", st.Name, err)
		}

		for _, d := range st.Districts {
			district := domain.District{StateID: state.ID, Name: d.Name}
			if err := db.Where("state_id = ? AND name = ?", state.ID, d.Name).
				Attrs(domain.District{ID: uuid.NewString()}).
				FirstOrCreate(&district).Error; err != nil {
				return fmt.Errorf("seed district %q: %w", d.Name, err)
			}

			for _, sd := range d.SubDistricts {
				subDistrict := domain.SubDistrict{DistrictID: district.ID, Name: sd.Name}
				if err := db.Where("district_id = ? AND name = ?", district.ID, sd.Name).
					Attrs(domain.SubDistrict{ID: uuid.NewString()}).
					FirstOrCreate(&subDistrict).Error; err != nil {
					return fmt.Errorf("seed sub-district %q: %w", sd.Name, err)
				}

				for _, v := range sd.Villages {
					village := domain.Village{SubDistrictID: subDistrict.ID, Name: v.Name}
					if err := db.Where("sub_district_id = ? AND name = ?", subDistrict.ID, v.Name).
						Attrs(domain.Village{ID: uuid.NewString()}).
						FirstOrCreate(&village).Error; err != nil {
						return fmt.Errorf("seed village %q: %w", v.Name, err)
					}

					for _, canalName := range v.Canals {
						canal := domain.Canal{VillageID: village.ID, Name: canalName}
						if err := db.Where("village_id = ? AND name = ?", village.ID, canalName).
							Attrs(domain.Canal{ID: uuid.NewString()}).
							FirstOrCreate(&canal).Error; err != nil {
							return fmt.Errorf("seed canal %q: %w", canalName, err)
						}
						created++
					}
					created++
				}
				created++
			}
			created++
		}
		created++
	}
	logger.Info("Location hierarchy seeded", zap.Int("records_visited", created))
	return nil
}

func seedAdminUser(db *gorm.DB, admin seedAdmin) error {
	if admin.Email == "" || admin.Password == "" {
		return fmt.Errorf("admin seed requires email and password")
	}

	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		logger.Info("Admin user already present", zap.String("email", admin.Email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), 12)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         admin.Name,
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	logger.Info("Admin user created", zap.String("email", admin.Email))
	return nil
}
