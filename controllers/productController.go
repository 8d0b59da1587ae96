package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxPhotoSize = 5 << 20 // 5MB

type ProductController struct {
	products repositories.ProductRepository
	logger   zerolog.Logger
}

func NewProductController(products repositories.ProductRepository, logger zerolog.Logger) *ProductController {
	return &ProductController{products: products, logger: logger}
}

// parseProductForm reads the multipart product fields shared by create
// and update.
func (c *ProductController) parseProductForm(ctx *gin.Context) (*models.Product, bool) {
	name := ctx.PostForm("name")
	description := ctx.PostForm("description")

	switch {
	case name == "":
		sendErrorResponse(ctx, http.StatusBadRequest, "Name is Required")
		return nil, false
	case description == "":
		sendErrorResponse(ctx, http.StatusBadRequest, "Description is Required")
		return nil, false
	}

	price, err := strconv.ParseFloat(ctx.PostForm("price"), 64)
	if err != nil || price < 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Valid Price is Required")
		return nil, false
	}
	quantity, err := strconv.Atoi(ctx.PostForm("quantity"))
	if err != nil || quantity < 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Valid Quantity is Required")
		return nil, false
	}
	category, err := primitive.ObjectIDFromHex(ctx.PostForm("category"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Category is Required")
		return nil, false
	}
	shipping, _ := strconv.ParseBool(ctx.PostForm("shipping"))

	product := &models.Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		Price:       price,
		Quantity:    quantity,
		Category:    category,
		Shipping:    shipping,
	}

	file, err := ctx.FormFile("photo")
	if err == nil {
		if file.Size > maxPhotoSize {
			sendErrorResponse(ctx, http.StatusBadRequest, "Photo should be less than 5MB")
			return nil, false
		}
		f, err := file.Open()
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Failed to read photo")
			return nil, false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Failed to read photo")
			return nil, false
		}
		product.Photo = models.ProductPhoto{
			Data:        data,
			ContentType: file.Header.Get("Content-Type"),
		}
	}

	return product, true
}

func (c *ProductController) CreateProduct(ctx *gin.Context) {
	product, ok := c.parseProductForm(ctx)
	if !ok {
		return
	}

	if err := c.products.Create(ctx.Request.Context(), product); err != nil {
		c.logger.Error().Err(err).Msg("Error creating product")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Error creating product")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"success": true,
		"message": "Product Created Successfully",
		"product": product,
	})
}

func (c *ProductController) UpdateProduct(ctx *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(ctx.Param("pid"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	product, ok := c.parseProductForm(ctx)
	if !ok {
		return
	}
	product.ID = productID

	existing, err := c.products.FindByID(ctx.Request.Context(), productID)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}
	product.CreatedAt = existing.CreatedAt

	// keep the stored photo when the form did not carry a new one
	if len(product.Photo.Data) == 0 {
		if photo, err := c.products.PhotoByID(ctx.Request.Context(), productID); err == nil {
			product.Photo = *photo
		}
	}

	if err := c.products.Update(ctx.Request.Context(), product); err != nil {
		c.logger.Error().Err(err).Msg("Error updating product")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Error updating product")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Product Updated Successfully",
		"product": product,
	})
}

func (c *ProductController) DeleteProduct(ctx *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(ctx.Param("pid"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	if err := c.products.Delete(ctx.Request.Context(), productID); err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Product Deleted Successfully",
	})
}

func (c *ProductController) GetProducts(ctx *gin.Context) {
	products, err := c.products.FindAll(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Error fetching products")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Error fetching products")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

func (c *ProductController) GetProductBySlug(ctx *gin.Context) {
	product, err := c.products.FindBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "product": product})
}

// ProductPhoto serves the stored photo bytes with their content type.
func (c *ProductController) ProductPhoto(ctx *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(ctx.Param("pid"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse product id")
		return
	}

	photo, err := c.products.PhotoByID(ctx.Request.Context(), productID)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Product photo not found")
		return
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Data(http.StatusOK, contentType, photo.Data)
}
