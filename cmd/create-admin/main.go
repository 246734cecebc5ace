package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/manuelveliznajera/backend-SDigitales/internal/config"
	"github.com/manuelveliznajera/backend-SDigitales/internal/database"
	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/repository"
)

// Seeds the first administrator account. Run once against a fresh database:
//
//	create-admin -correo admin@example.com -password secret
func main() {
	correo := flag.String("correo", "", "admin email")
	password := flag.String("password", "", "admin password (min 6 characters)")
	flag.Parse()

	if *correo == "" || *password == "" || len(*password) < 6 {
		fmt.Fprintln(os.Stderr, "usage: create-admin -correo <email> -password <password, min 6 chars>")
		os.Exit(2)
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	repo := repository.NewUsuarioRepository(db)
	if existing, _ := repo.GetByCorreo(*correo); existing != nil {
		log.Fatal().Str("correo", *correo).Msg("account already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	admin := &models.Usuario{Correo: *correo, Password: string(hash), Role: "Administrador"}
	if err := repo.Create(admin); err != nil {
		log.Fatal().Err(err).Msg("failed to create admin")
	}

	log.Info().Int("id", admin.ID).Str("correo", admin.Correo).Msg("admin created")
}
