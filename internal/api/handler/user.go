package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Create 新建会员
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.CreateUser(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserIDExists):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserIDExhausted):
			response.ServerError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, info)
}

// Get 查询会员详情
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	info, err := h.userService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// List 分页查询会员列表
// GET /api/v1/users?page=1&page_size=20
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	infos, total, err := h.userService.ListUsers(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, infos)
}

// Update 更新会员资料与套餐选择
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateUser(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrPlanConflict):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// Delete 删除会员
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.NoContent(c)
}

// Search 按姓名、编号或联系电话搜索
// GET /api/v1/users/search?q=xxx
func (h *UserHandler) Search(c *gin.Context) {
	infos, err := h.userService.SearchUsers(c.Query("q"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, infos)
}

// FilterByStatus 按会籍状态过滤
// GET /api/v1/users/status/:status
func (h *UserHandler) FilterByStatus(c *gin.Context) {
	infos, err := h.userService.FilterByStatus(c.Param("status"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, infos)
}

// UploadPhoto 上传会员照片
// POST /api/v1/users/:id/photo
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "请选择文件")
		return
	}

	// 验证文件大小 (5MB)
	if file.Size > 5*1024*1024 {
		response.ParamError(c, "文件大小不能超过5MB")
		return
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		response.ParamError(c, "只支持 jpg/png/webp 格式")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return
	}
	defer f.Close()

	photoURL, err := h.userService.UploadPhoto(userID, f, file.Filename)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "上传失败")
		return
	}

	response.SuccessWithMessage(c, "上传成功", gin.H{
		"photo_url": photoURL,
	})
}
