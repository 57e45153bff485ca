package routes

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/api/handlers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/api/middleware"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler         *handlers.AuthHandler
	brandHandler        *handlers.BrandHandler
	facilityHandler     *handlers.FacilityHandler
	scheduleHandler     *handlers.ScheduleHandler
	packageHandler      *handlers.PackageHandler
	promotionHandler    *handlers.PromotionHandler
	reviewHandler       *handlers.ReviewHandler
	cartHandler         *handlers.CartHandler
	purchaseHandler     *handlers.PurchaseHandler
	subscriptionHandler *handlers.SubscriptionHandler

	authMiddleware  *middleware.AuthMiddleware
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	brandHandler *handlers.BrandHandler,
	facilityHandler *handlers.FacilityHandler,
	scheduleHandler *handlers.ScheduleHandler,
	packageHandler *handlers.PackageHandler,
	promotionHandler *handlers.PromotionHandler,
	reviewHandler *handlers.ReviewHandler,
	cartHandler *handlers.CartHandler,
	purchaseHandler *handlers.PurchaseHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	authMiddleware *middleware.AuthMiddleware,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:         authHandler,
		brandHandler:        brandHandler,
		facilityHandler:     facilityHandler,
		scheduleHandler:     scheduleHandler,
		packageHandler:      packageHandler,
		promotionHandler:    promotionHandler,
		reviewHandler:       reviewHandler,
		cartHandler:         cartHandler,
		purchaseHandler:     purchaseHandler,
		subscriptionHandler: subscriptionHandler,

		authMiddleware:  authMiddleware,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	owner := r.authMiddleware.RequireRoles(entities.RoleFacilityOwner)
	admin := r.authMiddleware.RequireRoles(entities.RoleAdmin)
	member := r.authMiddleware.RequireRoles()

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/signup", r.authHandler.Signup)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.HandleFunc("GET /api/auth/me", member(r.authHandler.GetMe))
	r.mux.HandleFunc("PUT /api/admin/users/{id}/roles", admin(r.authHandler.UpdateUserRoles))

	// Brand endpoints
	r.mux.HandleFunc("POST /api/brands", owner(r.brandHandler.CreateBrand))
	r.mux.HandleFunc("GET /api/brands", owner(r.brandHandler.ListMyBrands))
	r.mux.HandleFunc("GET /api/brands/{id}", member(r.brandHandler.GetBrand))
	r.mux.HandleFunc("PATCH /api/brands/{id}", owner(r.brandHandler.UpdateBrand))

	// Facility endpoints; reads are public
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/search", r.facilityHandler.SearchFacilities)
	r.mux.HandleFunc("GET /api/facilities/{id}", r.facilityHandler.GetFacility)
	r.mux.HandleFunc("POST /api/facilities", owner(r.facilityHandler.CreateFacility))
	r.mux.HandleFunc("PATCH /api/facilities/{id}", owner(r.facilityHandler.UpdateFacility))
	r.mux.HandleFunc("DELETE /api/facilities/{id}", owner(r.facilityHandler.ArchiveFacility))
	r.mux.HandleFunc("GET /api/owner/facilities", owner(r.facilityHandler.ListMyFacilities))

	// Schedule and holiday endpoints
	r.mux.HandleFunc("GET /api/facilities/{id}/schedule", r.scheduleHandler.GetFacilitySchedule)
	r.mux.HandleFunc("POST /api/facilities/{id}/schedule", owner(r.scheduleHandler.CreateSchedule))
	r.mux.HandleFunc("PUT /api/schedules/{id}", owner(r.scheduleHandler.UpdateSchedule))
	r.mux.HandleFunc("DELETE /api/schedules/{id}", owner(r.scheduleHandler.DeleteSchedule))
	r.mux.HandleFunc("GET /api/facilities/{id}/holidays", r.scheduleHandler.ListFacilityHolidays)
	r.mux.HandleFunc("POST /api/facilities/{id}/holidays", owner(r.scheduleHandler.CreateHoliday))
	r.mux.HandleFunc("PATCH /api/holidays/{id}", owner(r.scheduleHandler.UpdateHoliday))
	r.mux.HandleFunc("DELETE /api/holidays/{id}", owner(r.scheduleHandler.DeleteHoliday))

	// Package endpoints
	r.mux.HandleFunc("GET /api/facilities/{id}/packages", r.packageHandler.ListFacilityPackages)
	r.mux.HandleFunc("GET /api/packages/{id}", r.packageHandler.GetPackage)
	r.mux.HandleFunc("POST /api/packages", owner(r.packageHandler.CreatePackage))
	r.mux.HandleFunc("PATCH /api/packages/{id}", owner(r.packageHandler.UpdatePackage))
	r.mux.HandleFunc("DELETE /api/packages/{id}", owner(r.packageHandler.DeletePackage))
	r.mux.HandleFunc("GET /api/facilities/{id}/package-types", r.packageHandler.ListFacilityPackageTypes)
	r.mux.HandleFunc("POST /api/package-types", owner(r.packageHandler.CreatePackageType))
	r.mux.HandleFunc("PATCH /api/package-types/{id}", owner(r.packageHandler.UpdatePackageType))
	r.mux.HandleFunc("DELETE /api/package-types/{id}", owner(r.packageHandler.DeletePackageType))

	// Promotion endpoints
	r.mux.HandleFunc("GET /api/promotions/{code}", r.promotionHandler.GetPromotionByCode)
	r.mux.HandleFunc("POST /api/admin/promotions", admin(r.promotionHandler.CreatePromotion))
	r.mux.HandleFunc("GET /api/admin/promotions", admin(r.promotionHandler.ListPromotions))
	r.mux.HandleFunc("PATCH /api/admin/promotions/{id}", admin(r.promotionHandler.UpdatePromotion))
	r.mux.HandleFunc("DELETE /api/admin/promotions/{id}", admin(r.promotionHandler.DeletePromotion))

	// Review endpoints
	r.mux.HandleFunc("GET /api/facilities/{id}/reviews", r.reviewHandler.ListFacilityReviews)
	r.mux.HandleFunc("POST /api/facilities/{id}/reviews", member(r.reviewHandler.CreateReview))
	r.mux.HandleFunc("GET /api/reviews", member(r.reviewHandler.ListMyReviews))
	r.mux.HandleFunc("DELETE /api/reviews/{id}", member(r.reviewHandler.DeleteReview))

	// Cart and purchase endpoints
	r.mux.HandleFunc("GET /api/cart", member(r.cartHandler.GetCart))
	r.mux.HandleFunc("POST /api/cart/items", member(r.cartHandler.AddItem))
	r.mux.HandleFunc("PATCH /api/cart/items/{id}", member(r.cartHandler.UpdateItemPromotion))
	r.mux.HandleFunc("DELETE /api/cart/items/{id}", member(r.cartHandler.RemoveItem))
	r.mux.HandleFunc("POST /api/purchase", member(r.purchaseHandler.Purchase))
	r.mux.HandleFunc("GET /api/bills", member(r.purchaseHandler.ListBills))
	r.mux.HandleFunc("GET /api/bills/{id}", member(r.purchaseHandler.GetBill))

	// Subscription endpoints
	r.mux.HandleFunc("GET /api/subscriptions", member(r.subscriptionHandler.ListMySubscriptions))
	r.mux.HandleFunc("GET /api/subscriptions/{id}", member(r.subscriptionHandler.GetSubscription))
	r.mux.HandleFunc("POST /api/subscriptions/{id}/renew", member(r.subscriptionHandler.RenewSubscription))
	r.mux.HandleFunc("PATCH /api/subscriptions/{id}/renew", member(r.subscriptionHandler.SetSubscriptionRenew))
	r.mux.HandleFunc("GET /api/facilities/{id}/subscriptions", owner(r.subscriptionHandler.ListFacilitySubscriptions))

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = r.authMiddleware.Middleware(handler)
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
