package ez

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	resp "petstore-user/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON Binder = "json" // 从 JSON 绑定；空 body 与 null 视为缺失
	BindNone Binder = "none" // 不绑定，自己从 c.Param 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func TooLarge(msg string) error   { return &AErr{Code: resp.CodeTooLarge, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Result 成功结果：Body 为 nil 时只写状态行
type Result struct {
	Status   int
	Location string
	Body     any
}

func OK(body any) Result { return Result{Status: http.StatusOK, Body: body} }

func Created(location string) Result {
	return Result{Status: http.StatusCreated, Location: location}
}

// 动作定义：I 入参
type Action[I any] struct {
	Method  string // "GET" | "POST"
	Path    string // 例："/user/:username"
	Binder  Binder
	Handler func(c *gin.Context, in *I) (Result, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any](e EZ, a Action[I]) {
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		if a.Binder == BindJSON {
			if err := bindJSON(c, &in); err != nil {
				writeErr(c, err)
				return
			}
		}

		// 2) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			writeErr(c, err)
			return
		}

		// 3) 写响应
		if out.Status == 0 {
			out.Status = http.StatusOK
		}
		if out.Location != "" {
			c.Header("Location", out.Location)
		}
		if out.Body == nil {
			c.Status(out.Status)
			return
		}
		c.JSON(out.Status, out.Body)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPost:
		e.g.POST(a.Path, h)
	default:
		// 注册期即失败，避免方法写错被悄悄挂成别的动词
		panic(fmt.Sprintf("ez: unsupported method %q for %s", a.Method, a.Path))
	}
}

func bindJSON(c *gin.Context, obj any) error {
	raw, err := c.GetRawData()
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return TooLarge("request body too large")
		}
		return BadRequest("read request body: " + err.Error())
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return BadRequest("request body is required")
	}
	if err := binding.JSON.BindBody(trimmed, obj); err != nil {
		return BadRequest(err.Error())
	}
	return nil
}

// 统一错误映射；非 AErr 一律 500，不回显内部错误
func writeErr(c *gin.Context, err error) {
	_ = c.Error(err)
	var ae *AErr
	if errors.As(err, &ae) {
		resp.Abort(c, ae.Code, ae.Error())
		return
	}
	resp.Abort(c, resp.CodeServerError, "internal error")
}
