package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/storage"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// ProductoHandler handles catalog HTTP endpoints. Create/update consume
// multipart forms with an optional "imagen" file field.
type ProductoHandler struct {
	productos *service.ProductoService
	files     *storage.FileStore
}

// NewProductoHandler constructs a ProductoHandler.
func NewProductoHandler(productos *service.ProductoService, files *storage.FileStore) *ProductoHandler {
	return &ProductoHandler{productos: productos, files: files}
}

// List returns all products with their categories.
func (h *ProductoHandler) List(c *gin.Context) {
	productos, err := h.productos.List()
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al obtener los productos", err)
		return
	}
	c.JSON(200, productos)
}

// GetByID returns one product with its category.
func (h *ProductoHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	p, err := h.productos.GetByID(id)
	if err != nil {
		if err == service.ErrProductoNotFound {
			utils.Error(c, 404, "Producto con id "+c.Param("id")+" no encontrado")
			return
		}
		utils.ErrorDetail(c, 500, "Error al obtener el producto", err)
		return
	}
	c.JSON(200, p)
}

// parseProductoForm reads the multipart product fields. Returns an error
// message when a mandatory field is missing or unparseable.
func parseProductoForm(c *gin.Context) (*models.Producto, string) {
	nombre := c.PostForm("nombreProducto")
	descripcion := c.PostForm("descripcion")
	stockRaw := c.PostForm("stock")
	costoRaw := c.PostForm("precioCosto")
	publicoRaw := c.PostForm("precioPublico")
	categoriaRaw := c.PostForm("categoriaId")

	if nombre == "" || descripcion == "" || stockRaw == "" || costoRaw == "" || publicoRaw == "" || categoriaRaw == "" {
		return nil, "No se permiten campos nulos o vacíos"
	}

	stock, err := strconv.Atoi(stockRaw)
	if err != nil {
		return nil, "stock inválido"
	}
	precioCosto, err := decimal.NewFromString(costoRaw)
	if err != nil {
		return nil, "precioCosto inválido"
	}
	precioPublico, err := decimal.NewFromString(publicoRaw)
	if err != nil {
		return nil, "precioPublico inválido"
	}
	categoriaID, err := strconv.Atoi(categoriaRaw)
	if err != nil {
		return nil, "categoriaId inválido"
	}

	favorito, _ := strconv.ParseBool(c.PostForm("favorito"))

	return &models.Producto{
		NombreProducto: nombre,
		Descripcion:    descripcion,
		Stock:          stock,
		PrecioCosto:    precioCosto,
		PrecioPublico:  precioPublico,
		CategoriaID:    categoriaID,
		Favorito:       favorito,
	}, ""
}

// Create stores a new product. An image is mandatory, either as an upload or
// as an already-stored path in the "imagen" form field.
func (h *ProductoHandler) Create(c *gin.Context) {
	p, msg := parseProductoForm(c)
	if msg != "" {
		utils.Error(c, 400, "No se permiten campos nulos o vacíos para crear el producto")
		return
	}

	if file, err := c.FormFile("imagen"); err == nil {
		path, err := h.files.SaveUpload(c, file, "")
		if err != nil {
			utils.Error(c, 400, "Error al subir la imagen. El archivo no existe en uploads.")
			return
		}
		p.Imagen = path
	} else {
		p.Imagen = c.PostForm("imagen")
	}
	if p.Imagen == "" {
		utils.Error(c, 400, "No se permiten campos nulos o vacíos para crear el producto")
		return
	}

	creado, err := h.productos.Create(p)
	if err != nil {
		utils.ErrorDetail(c, 500, "Error al agregar el producto", err)
		return
	}
	c.JSON(201, creado)
}

// Update rewrites a product, optionally replacing its image.
func (h *ProductoHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	p, msg := parseProductoForm(c)
	if msg != "" {
		utils.Error(c, 400, "No se permiten campos nulos o vacíos para editar el producto")
		return
	}

	var newImage *string
	if file, err := c.FormFile("imagen"); err == nil {
		path, err := h.files.SaveUpload(c, file, "")
		if err != nil {
			utils.Error(c, 400, "Error al subir la imagen. El archivo no existe en uploads.")
			return
		}
		newImage = &path
	}

	actualizado, err := h.productos.Update(id, p, newImage)
	if err != nil {
		if err == service.ErrProductoNotFound {
			utils.Error(c, 404, "Producto no encontrado")
			return
		}
		utils.ErrorDetail(c, 500, "Error al editar el producto", err)
		return
	}
	c.JSON(200, actualizado)
}

// Delete removes a product and its image.
func (h *ProductoHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "id inválido")
		return
	}

	if err := h.productos.Delete(id); err != nil {
		if err == service.ErrProductoNotFound {
			utils.Error(c, 404, "Producto no encontrado")
			return
		}
		utils.ErrorDetail(c, 500, "Error al eliminar el producto", err)
		return
	}
	c.JSON(200, gin.H{"mensaje": "Producto eliminado correctamente"})
}
