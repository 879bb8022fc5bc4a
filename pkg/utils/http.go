package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	ErrEmptyParameter = errors.New("empty parameter")
)

func ParseIDParam(c *gin.Context, param string) (uint, error) {
	idStr := c.Param(param)
	if idStr == "" {
		return 0, ErrEmptyParameter
	}
	idUint64, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || idUint64 == 0 {
		return 0, errors.New("invalid " + param)
	}
	return uint(idUint64), nil
}

func ParseQueryUintParam(c *gin.Context, param string) (uint, error) {
	valStr := c.Query(param)
	if valStr == "" {
		return 0, ErrEmptyParameter
	}
	valUint64, err := strconv.ParseUint(valStr, 10, 64)
	return uint(valUint64), err
}

// ParseQueryInt returns def when the parameter is absent or malformed.
func ParseQueryInt(c *gin.Context, param string, def int) int {
	v, err := strconv.Atoi(c.Query(param))
	if err != nil {
		return def
	}
	return v
}
