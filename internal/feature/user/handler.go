package user

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"petstore-user/internal/domain"
	"petstore-user/internal/service"
	httpez "petstore-user/internal/transport/http/ez"
)

// Module 用户资源：GET /user/:username、POST /user
type Module struct {
	log   *zap.Logger
	svc   *service.UserService
	store domain.UserStore
}

func NewModule(l *zap.Logger, svc *service.UserService, store domain.UserStore) *Module {
	return &Module{log: l, svc: svc, store: store}
}

func (m *Module) Priority() int { return 10 }

func (m *Module) Collectors() []prometheus.Collector {
	return []prometheus.Collector{prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "users_stored", Help: "Number of users held in the store"},
		func() float64 { return float64(m.store.Len()) },
	)}
}

func (m *Module) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	// --- GET /user/:username ---
	httpez.RegisterAction[struct{}](ez, httpez.Action[struct{}]{
		Method:  http.MethodGet,
		Path:    "/user/:username",
		Binder:  httpez.BindNone,
		Handler: m.getUserByName,
	})

	// --- POST /user ---
	httpez.RegisterAction[userPayload](ez, httpez.Action[userPayload]{
		Method:  http.MethodPost,
		Path:    "/user",
		Binder:  httpez.BindJSON,
		Handler: m.createUser,
	})
}

func (m *Module) getUserByName(c *gin.Context, _ *struct{}) (httpez.Result, error) {
	username := c.Param("username")
	if m.svc.Mode() == service.ModeStub {
		return httpez.OK(viewOfStub(m.svc.Stub(username))), nil
	}

	u, err := m.svc.GetByName(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return httpez.Result{}, httpez.NotFound("user not found")
		}
		return httpez.Result{}, httpez.Internal("get user failed", err)
	}
	return httpez.OK(viewOf(u)), nil
}

func (m *Module) createUser(c *gin.Context, in *userPayload) (httpez.Result, error) {
	u, err := m.svc.Create(c.Request.Context(), in.toInput())
	if err != nil {
		if errors.Is(err, service.ErrInvalidUser) {
			return httpez.Result{}, httpez.BadRequest(err.Error())
		}
		return httpez.Result{}, httpez.Internal("create user failed", err)
	}
	m.log.Debug("user created",
		zap.Int64("id", u.ID),
		zap.String("username", u.Username),
		zap.String("mode", string(m.svc.Mode())),
	)

	// 用原始（未解码）路径拼 Location
	loc := strings.TrimSuffix(c.Request.URL.EscapedPath(), "/") + "/" + strconv.FormatInt(u.ID, 10)
	return httpez.Created(loc), nil
}
