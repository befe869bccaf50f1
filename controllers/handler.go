package controllers

import (
	"errors"
	"mime/multipart"

	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handler holds the services behind every HTTP endpoint.
type Handler struct {
	Orders   *services.OrderService
	Coupons  *services.CouponService
	Auth     *services.AuthService
	Blogs    *services.BlogService
	Products *services.ProductService
	Settings *services.SettingsService
}

// bindJSON decodes the request body into req. Validation failures answer
// 422 with per-field messages, malformed bodies 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			utils.ValidationError(c, "Validation failed", utils.DescribeValidationErrors(err))
			return false
		}
		utils.BadRequest(c, "Invalid request", err)
		return false
	}
	return true
}

// formUpload reads the multipart file "file", checks it with validate and
// returns its content as a data URL.
func formUpload(c *gin.Context, validate func(*multipart.FileHeader) error) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.LogError("No file uploaded: %v", err)
		utils.BadRequest(c, "No file uploaded", err)
		return "", false
	}
	if err := validate(file); err != nil {
		utils.LogError("Rejected upload %s: %v", file.Filename, err)
		utils.BadRequest(c, "Invalid file", err)
		return "", false
	}
	dataURL, err := utils.ReadAsDataURL(file)
	if err != nil {
		utils.RespondError(c, utils.InternalError("Failed to read uploaded file", err))
		return "", false
	}
	utils.LogDebug("Read upload %s (%d bytes)", file.Filename, file.Size)
	return dataURL, true
}
