package handlers

import (
	"strconv"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

// parseID reads a positive numeric path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+what+" id")
		return 0, false
	}
	return uint(id), true
}

func bindPage(c *gin.Context) (dto.PageRequest, bool) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, err.Error())
		return page, false
	}
	return page, true
}
