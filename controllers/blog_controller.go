package controllers

import (
	"strconv"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// GET /blogs?status=
// Without a status only published posts are listed; status=all lists every post.
func (h *Handler) ListBlogs(c *gin.Context) {
	utils.LogInfo("ListBlogs called")

	status, given := c.GetQuery("status")
	switch {
	case !given:
		status = models.BlogStatusPublished
	case status == "all":
		status = ""
	}

	posts, err := h.Blogs.List(c.Request.Context(), status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogDebug("Retrieved %d blogs with status %q", len(posts), status)
	utils.Success(c, "Blogs retrieved successfully", gin.H{"blogs": posts})
}

// GET /blogs/:id
func (h *Handler) GetBlog(c *gin.Context) {
	utils.LogInfo("GetBlog called")

	post, err := h.Blogs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Blog retrieved successfully", post)
}

// POST /admin/blogs/generate
func (h *Handler) GenerateBlog(c *gin.Context) {
	utils.LogInfo("GenerateBlog called")

	var req services.GenerateInput
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.Blogs.Generate(c.Request.Context(), req.Keywords)
	if err != nil {
		utils.LogError("Blog generation failed for %q: %v", req.Keywords, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Blog generated successfully", post)
}

// POST /admin/blogs
func (h *Handler) CreateBlog(c *gin.Context) {
	utils.LogInfo("CreateBlog called")

	var req services.BlogInput
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.Blogs.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Blog created successfully", post)
}

// PUT /admin/blogs/:id
func (h *Handler) UpdateBlog(c *gin.Context) {
	utils.LogInfo("UpdateBlog called")

	var req services.BlogPatch
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.Blogs.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.LogError("Failed to update blog %s: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Blog updated successfully", post)
}

// POST /admin/blogs/:id/publish
func (h *Handler) PublishBlog(c *gin.Context) {
	utils.LogInfo("PublishBlog called")

	if err := h.Blogs.Publish(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Blog published successfully", nil)
}

// DELETE /admin/blogs/:id
func (h *Handler) DeleteBlog(c *gin.Context) {
	utils.LogInfo("DeleteBlog called")

	if err := h.Blogs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Blog deleted successfully", nil)
}

// POST /admin/blogs/:id/upload-image
func (h *Handler) UploadBlogImage(c *gin.Context) {
	utils.LogInfo("UploadBlogImage called")

	dataURL, ok := formUpload(c, utils.ValidateImageFile)
	if !ok {
		return
	}
	if err := h.Blogs.SetImage(c.Request.Context(), c.Param("id"), dataURL); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Image uploaded successfully", gin.H{"image_url": dataURL})
}

// POST /admin/blogs/:id/upload-audio
func (h *Handler) UploadBlogAudio(c *gin.Context) {
	utils.LogInfo("UploadBlogAudio called")

	dataURL, ok := formUpload(c, utils.ValidateAudioFile)
	if !ok {
		return
	}
	if err := h.Blogs.SetAudio(c.Request.Context(), c.Param("id"), dataURL); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Audio uploaded successfully", gin.H{"audio_url": dataURL})
}

// GET /admin/fetch-images?keywords=&count=
func (h *Handler) FetchImages(c *gin.Context) {
	utils.LogInfo("FetchImages called")

	count, err := strconv.Atoi(c.DefaultQuery("count", "3"))
	if err != nil {
		utils.BadRequest(c, "count must be a number", err)
		return
	}

	images, err := h.Blogs.FetchImages(c.Request.Context(), c.Query("keywords"), count)
	if err != nil {
		utils.LogError("Image search failed: %v", err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Images fetched successfully", gin.H{"images": images})
}

// GET /admin/fetch-image?keywords=
func (h *Handler) FetchImage(c *gin.Context) {
	utils.LogInfo("FetchImage called")

	image, err := h.Blogs.FetchImage(c.Request.Context(), c.Query("keywords"))
	if err != nil {
		utils.LogError("Image search failed: %v", err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Image fetched successfully", gin.H{"image_base64": image})
}
