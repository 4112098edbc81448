package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AlonaKolesneva/user-service-api/internal/auth"
	"github.com/AlonaKolesneva/user-service-api/internal/config"
	apperrors "github.com/AlonaKolesneva/user-service-api/internal/errors"
	"github.com/AlonaKolesneva/user-service-api/internal/handler"
	"github.com/AlonaKolesneva/user-service-api/internal/metrics"
	"github.com/AlonaKolesneva/user-service-api/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	userHandler *handler.UserHandler,
	userRepo repository.UserRepository,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = newErrorHandler(log)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "version": "1.0.0"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	users := e.Group("/api/v1/users")

	// Public routes
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)

	// Secured routes: bearer token verification, then resolution of the
	// token subject to a live user record.
	secured := users.Group("", auth.NewGuard(cfg.JWTSecret), auth.ResolveUser(userRepo))
	secured.GET("", userHandler.List)
	secured.GET("/:id", userHandler.GetByID)
	secured.PUT("/:id", userHandler.Update)
	secured.DELETE("/:id", userHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// newErrorHandler renders every error as the {message, error} JSON shape.
// Internal detail is logged server-side and never reaches the response body.
func newErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var body apperrors.ErrorResponse
		status := http.StatusInternalServerError

		switch e := err.(type) {
		case *apperrors.HTTPError:
			status = e.StatusCode
			body = e.ToErrorResponse()
		case *echo.HTTPError:
			status = e.Code
			msg := fmt.Sprintf("%v", e.Message)
			body = apperrors.ErrorResponse{Message: msg, Error: msg}
		default:
			body = apperrors.ErrorResponse{Message: "Internal server error", Error: "Internal server error"}
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
