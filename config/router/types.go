package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what every handler returns. Template selects an HTML render, ContentType a raw
// body; otherwise the result is written as the JSON envelope.
type ServiceResult struct {
	StatusCode  int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Template    string `json:"-"`
	ContentType string `json:"-"`
	Body        []byte `json:"-"`
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	return gin.H{
		"code":    result.StatusCode,
		"data":    result.Data,
		"message": result.Message,
	}
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}

func (result *ServiceResult) write(c *RequestContext) {
	switch {
	case result.Template != "":
		c.HTML(result.StatusCode, result.Template, result.Data)
	case result.ContentType != "":
		c.Data(result.StatusCode, result.ContentType, result.Body)
	default:
		c.JSON(result.StatusCode, result.ToJSON())
	}
}
