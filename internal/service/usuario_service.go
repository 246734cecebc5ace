package service

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/repository"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// UsuarioService handles account management and login.
type UsuarioService struct {
	repo *repository.UsuarioRepository
}

// NewUsuarioService constructs a UsuarioService.
func NewUsuarioService(repo *repository.UsuarioRepository) *UsuarioService {
	return &UsuarioService{repo: repo}
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Mensaje string `json:"mensaje"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	ID      int    `json:"id"`
	Correo  string `json:"correo"`
}

var (
	// ErrUsuarioNotFound is returned for unknown accounts.
	ErrUsuarioNotFound = errors.New("usuario no registrado")
	// ErrPasswordIncorrecto is returned when the password does not match.
	ErrPasswordIncorrecto = errors.New("password incorrecto")
	// ErrCorreoRegistrado is returned when registering a taken email.
	ErrCorreoRegistrado = errors.New("el correo ya está registrado")
)

// Register creates a new account with a bcrypt-hashed password.
func (s *UsuarioService) Register(correo, password, role string) (*models.Usuario, error) {
	if existing, _ := s.repo.GetByCorreo(correo); existing != nil {
		return nil, ErrCorreoRegistrado
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.Usuario{Correo: correo, Password: string(hash), Role: role}
	if err := s.repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a one-hour JWT.
func (s *UsuarioService) Login(correo, password string) (*LoginResult, error) {
	u, err := s.repo.GetByCorreo(correo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUsuarioNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		log.Warn().Str("correo", correo).Msg("failed login attempt")
		return nil, ErrPasswordIncorrecto
	}

	token, err := utils.GenerateJWT(u.ID, u.Correo)
	if err != nil {
		return nil, err
	}

	log.Info().Str("correo", correo).Msg("login successful")
	return &LoginResult{
		Mensaje: "Login exitoso",
		Token:   token,
		Role:    u.Role,
		ID:      u.ID,
		Correo:  u.Correo,
	}, nil
}

// GetByID returns one account.
func (s *UsuarioService) GetByID(id int) (*models.Usuario, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUsuarioNotFound
		}
		return nil, err
	}
	return u, nil
}

// Update rewrites email/role and, when a new password is supplied, its hash.
func (s *UsuarioService) Update(id int, correo, password, role string) (*models.Usuario, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUsuarioNotFound
		}
		return nil, err
	}

	if correo != "" {
		u.Correo = correo
	}
	if role != "" {
		u.Role = role
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.Password = string(hash)
	}

	if err := s.repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes an account.
func (s *UsuarioService) Delete(id int) error {
	return s.repo.Delete(id)
}

// List returns all accounts.
func (s *UsuarioService) List() ([]*models.Usuario, error) {
	return s.repo.List()
}
