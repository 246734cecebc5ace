package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// UsuarioHandler handles account HTTP endpoints.
type UsuarioHandler struct {
	usuarios *service.UsuarioService
}

// NewUsuarioHandler constructs a UsuarioHandler.
func NewUsuarioHandler(usuarios *service.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{usuarios: usuarios}
}

type credencialesRequest struct {
	Correo   string `json:"correo"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *credencialesRequest) validar() string {
	if r.Correo == "" || r.Password == "" {
		return "El correo y el password son obligatorios"
	}
	if len(r.Password) < 6 {
		return "El password debe tener al menos 6 caracteres"
	}
	return ""
}

// Register creates a new account.
func (h *UsuarioHandler) Register(c *gin.Context) {
	var req credencialesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "El correo y el password son obligatorios")
		return
	}
	if msg := req.validar(); msg != "" {
		utils.Error(c, 400, msg)
		return
	}

	u, err := h.usuarios.Register(req.Correo, req.Password, req.Role)
	if err != nil {
		if err == service.ErrCorreoRegistrado {
			utils.Error(c, 400, err.Error())
			return
		}
		utils.ErrorDetail(c, 500, "Error al agregar el usuario", err)
		return
	}
	c.JSON(201, u)
}

// Login verifies credentials and returns a JWT.
func (h *UsuarioHandler) Login(c *gin.Context) {
	var req credencialesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "El correo y el password son obligatorios")
		return
	}
	if msg := req.validar(); msg != "" {
		utils.Error(c, 400, msg)
		return
	}

	result, err := h.usuarios.Login(req.Correo, req.Password)
	if err != nil {
		switch err {
		case service.ErrUsuarioNotFound:
			utils.Error(c, 404, "Usuario no registrado")
		case service.ErrPasswordIncorrecto:
			utils.Error(c, 401, "Password incorrecto")
		default:
			utils.ErrorDetail(c, 500, "Error al iniciar sesión", err)
		}
		return
	}
	c.JSON(200, result)
}

// List returns all accounts.
func (h *UsuarioHandler) List(c *gin.Context) {
	usuarios, err := h.usuarios.List()
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al obtener los usuarios", err)
		return
	}
	c.JSON(200, usuarios)
}

// GetByID returns one account.
func (h *UsuarioHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	u, err := h.usuarios.GetByID(id)
	if err != nil {
		if err == service.ErrUsuarioNotFound {
			utils.Error(c, 404, "Usuario no encontrado")
			return
		}
		utils.ErrorDetail(c, 500, "Error al buscar el usuario", err)
		return
	}
	c.JSON(200, u)
}

// Update rewrites an account.
func (h *UsuarioHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	var req credencialesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "cuerpo de la petición inválido")
		return
	}

	u, err := h.usuarios.Update(id, req.Correo, req.Password, req.Role)
	if err != nil {
		if err == service.ErrUsuarioNotFound {
			utils.Error(c, 404, "Usuario no encontrado")
			return
		}
		utils.ErrorDetail(c, 500, "Error al editar el usuario", err)
		return
	}
	c.JSON(200, u)
}

// Delete removes an account.
func (h *UsuarioHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	if err := h.usuarios.Delete(id); err != nil {
		utils.ErrorDetail(c, 500, "Error al eliminar el usuario", err)
		return
	}
	c.JSON(200, gin.H{"mensaje": "Usuario eliminado correctamente"})
}
