package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// CategoriaHandler handles category HTTP endpoints. Create/update consume
// multipart forms with an "imagen" file field.
type CategoriaHandler struct {
	categorias *service.CategoriaService
	files      *storage.FileStore
}

// NewCategoriaHandler constructs a CategoriaHandler.
func NewCategoriaHandler(categorias *service.CategoriaService, files *storage.FileStore) *CategoriaHandler {
	return &CategoriaHandler{categorias: categorias, files: files}
}

// List returns all categories.
func (h *CategoriaHandler) List(c *gin.Context) {
	categorias, err := h.categorias.List()
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al obtener las categorías", err)
		return
	}
	c.JSON(200, categorias)
}

// Create stores a new category with its mandatory image.
func (h *CategoriaHandler) Create(c *gin.Context) {
	nombre := c.PostForm("nombre")
	descripcion := c.PostForm("descripcion")
	if nombre == "" || descripcion == "" {
		utils.Error(c, 400, "El nombre y la descripción son obligatorios")
		return
	}

	file, err := c.FormFile("imagen")
	if err != nil {
		utils.Error(c, 400, "La imagen es obligatoria")
		return
	}
	imagePath, err := h.files.SaveUpload(c, file, "")
	if err != nil {
		utils.Error(c, 400, "Error al subir la imagen. El archivo no existe.")
		return
	}

	cat, err := h.categorias.Create(nombre, descripcion, imagePath)
	if err != nil {
		switch err {
		case service.ErrCategoriaDuplicada, service.ErrImagenDuplicada, service.ErrImagenRequerida:
			utils.Error(c, 400, err.Error())
		default:
			utils.ErrorDetail(c, 500, "Error al crear la categoría", err)
		}
		return
	}
	c.JSON(201, cat)
}

// Update rewrites a category, optionally replacing its image.
func (h *CategoriaHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	var imagePath string
	if file, err := c.FormFile("imagen"); err == nil {
		imagePath, err = h.files.SaveUpload(c, file, "")
		if err != nil {
			utils.Error(c, 400, "Error al subir la imagen. El archivo no existe.")
			return
		}
	}

	cat, err := h.categorias.Update(id, c.PostForm("nombre"), c.PostForm("descripcion"), imagePath)
	if err != nil {
		switch err {
		case service.ErrCategoriaNotFound:
			utils.Error(c, 404, "Categoría no encontrada")
		case service.ErrCategoriaDuplicada:
			utils.Error(c, 400, err.Error())
		default:
			utils.ErrorDetail(c, 500, "Error al editar la categoría", err)
		}
		return
	}
	c.JSON(200, cat)
}

// Delete removes a category and its image.
func (h *CategoriaHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	if err := h.categorias.Delete(id); err != nil {
		if err == service.ErrCategoriaNotFound {
			utils.Error(c, 404, "Categoría no encontrada")
			return
		}
		utils.ErrorDetail(c, 500, "Error al eliminar la categoría", err)
		return
	}
	c.JSON(200, gin.H{"mensaje": "Categoría eliminada correctamente"})
}
