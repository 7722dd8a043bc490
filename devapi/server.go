// Package devapi is a local stand-in for the marketplace API. It speaks the
// same JSON envelopes so the client can be demoed and tested without the real
// service.
package devapi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"food-marketplace-client/middleware"
	"food-marketplace-client/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	db     *gorm.DB
	secret []byte
	logger *zap.SugaredLogger
}

// New migrates db and returns a server backed by it.
func New(db *gorm.DB, secret []byte, logger *zap.SugaredLogger) (*Server, error) {
	if len(secret) == 0 {
		return nil, errors.New("devapi: empty signing secret")
	}
	err := db.AutoMigrate(
		&User{},
		&Food{},
		&Order{},
		&OrderItem{},
		&Category{},
		&RevokedToken{},
	)
	if err != nil {
		return nil, fmt.Errorf("devapi: migrate: %w", err)
	}
	useJSONFieldNames()
	return &Server{db: db, secret: secret, logger: logger}, nil
}

// Handler returns the API mounted under /api.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.logger.Named("devapi")))

	public := r.Group("/api")
	{
		public.POST("/auth/register", s.register)
		public.POST("/auth/login", s.login)

		public.GET("/foods", s.listFoods)
		public.GET("/foods/:id", s.getFood)

		public.GET("/categories", s.listCategories)
		public.GET("/categories/:id", s.getCategory)
		public.GET("/categories/:id/foods", s.categoryFoods)
	}

	auth := r.Group("/api")
	auth.Use(s.authRequired())
	{
		auth.POST("/auth/logout", s.logout)
		auth.GET("/auth/user", s.currentUser)

		auth.GET("/user/profile", s.getProfile)
		auth.PUT("/user/profile", s.updateProfile)

		auth.GET("/orders", s.listOrders)
		auth.GET("/orders/:id", s.getOrder)
	}

	chef := r.Group("/api")
	chef.Use(s.authRequired(), roleRequired(models.RoleChef))
	{
		chef.POST("/foods", s.createFood)
		chef.PUT("/foods/:id", s.updateFood)
		chef.DELETE("/foods/:id", s.deleteFood)
		chef.PUT("/orders/:id/status", s.updateOrderStatus)
	}

	customer := r.Group("/api")
	customer.Use(s.authRequired(), roleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", s.placeOrder)
	}

	return r
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// bindFailed reports binding errors the way the API does: 422 with the first
// problem as message and every field under errors.
func bindFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fail(c, http.StatusBadRequest, "Malformed request body.")
		return
	}
	fields := gin.H{}
	for _, fe := range verrs {
		fields[fe.Field()] = []string{fmt.Sprintf("The %s field is invalid (%s).", fe.Field(), fe.Tag())}
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": fmt.Sprintf("The %s field is invalid (%s).", verrs[0].Field(), verrs[0].Tag()),
		"errors":  fields,
	})
}

var jsonNamesOnce sync.Once

// useJSONFieldNames makes gin's validator report json names instead of Go
// field names.
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}
