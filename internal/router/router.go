package router

import (
	"net/http"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/handlers"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/metrics"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils/response"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	User     *handlers.UserHandler
	Category *handlers.CategoryHandler
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Order    *handlers.OrderHandler
	Admin    *handlers.AdminHandler
	// Media serves uploaded images below /media/. Optional.
	Media    http.Handler
}

// New mounts the API under /api next to /health, /metrics and /swagger.
// health may be nil.
func New(h Handlers, auth *middleware.AuthMiddleware, health http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	// clients built against the API send "carts/add_item/" style paths
	r.Use(chiMiddleware.StripSlashes)
	r.Use(middleware.Logging)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, errors.NotFoundError("Not found."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, errors.NewAppError(errors.ErrCodeBadRequest,
			`Method "`+r.Method+`" not allowed.`, http.StatusMethodNotAllowed))
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if health != nil {
		r.Handle("/health", health)
	}

	if h.Media != nil {
		r.Get("/media/*", h.Media.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		// public
		r.Post("/auth/register", h.User.Register())
		r.Post("/auth/login", h.User.Login())

		r.Get("/categories", h.Category.ListCategories())
		r.Get("/categories/{id}", h.Category.GetCategory())

		r.Get("/products", h.Product.ListProducts())
		r.Get("/products/search", h.Product.SearchProducts())
		r.Get("/products/{id}", h.Product.GetProduct())

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/auth/logout", h.User.Logout())

			r.Get("/carts/current", h.Cart.GetCurrentCart())
			r.Post("/carts/add_item", h.Cart.AddItem())
			r.Post("/carts/update_item", h.Cart.UpdateItem())
			r.Delete("/carts/remove_item", h.Cart.RemoveItem())
			r.Get("/cartitems", h.Cart.ListItems())

			r.Post("/orders/create_order", h.Order.CreateOrder())
			r.Get("/orders/listorders", h.Order.ListOrders())
			r.Get("/orders/{id}", h.Order.GetOrder())

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/me", h.Admin.Me())
				r.Get("/orders", h.Admin.ListAllOrders())
				r.Post("/delete_order", h.Admin.DeleteOrder())

				r.Post("/categories", h.Category.CreateCategory())
				r.Put("/categories/{id}", h.Category.UpdateCategory())
				r.Delete("/categories/{id}", h.Category.DeleteCategory())

				r.Get("/products", h.Product.AdminListProducts())
				r.Post("/products", h.Product.CreateProduct())
				r.Get("/products/{id}", h.Product.AdminGetProduct())
				r.Put("/products/{id}", h.Product.UpdateProduct())
				r.Delete("/products/{id}", h.Product.DeleteProduct())
			})
		})
	})

	return r
}
