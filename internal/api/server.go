package api

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/ncss/coffeerun/docs"
	v1 "github.com/ncss/coffeerun/internal/api/handler/v1"
	"github.com/ncss/coffeerun/internal/api/middleware"
	"github.com/ncss/coffeerun/internal/config"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/metrics"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/repository"
	"github.com/ncss/coffeerun/internal/repository/dao"
	"github.com/ncss/coffeerun/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Feed   *v1.FeedHandler
}

type handlers struct {
	auth   *v1.AuthHandler
	user   *v1.UserHandler
	run    *v1.RunHandler
	coffee *v1.CoffeeHandler
	cafe   *v1.CafeHandler
	event  *v1.EventHandler
	feed   *v1.FeedHandler
}

// NewServer wires every layer on top of db. The event feed only delivers
// once RunFeed has been started.
func NewServer(conf *config.AppConfig, db *gorm.DB, f *timefmt.Formatter, pricing service.Pricing) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	h := s.initHandlers(db, f, pricing)
	s.Feed = h.feed
	s.MountHandlers(h)

	return s
}

func (s *Server) initHandlers(db *gorm.DB, f *timefmt.Formatter, pricing service.Pricing) handlers {
	users := repository.NewUserRepository(dao.NewUserDAO(db))
	money := repository.NewMoneyRepository(dao.NewMoneyExchangeDAO(db))
	cafes := repository.NewCafeRepository(dao.NewCafeDAO(db))
	runs := repository.NewRunRepository(dao.NewRunDAO(db))
	coffees := repository.NewCoffeeRepository(dao.NewCoffeeDAO(db))
	events := repository.NewEventRepository(dao.NewEventDAO(db))

	uSvc := service.NewUserService(users, money)
	eventSvc := service.NewEventService(events, runs, coffees, cafes, cafes, f)
	cafeSvc := service.NewCafeService(cafes, eventSvc)
	runSvc := service.NewRunService(runs, cafes, eventSvc, domain.ProportionalSplit{}, f)
	coffeeSvc := service.NewCoffeeService(coffees, runs, cafes, eventSvc, pricing, f)

	feed := v1.NewFeedHandler(eventSvc, uSvc, f, s.Config.API.AllowedCORSDomains)
	eventSvc.Subscribe(feed)

	return handlers{
		auth:   v1.NewAuthHandler(s.Config.API, service.NewAuthService(users, uSvc)),
		user:   v1.NewUserHandler(uSvc),
		run:    v1.NewRunHandler(runSvc, uSvc, f, s.Config.API.PublicURL()),
		coffee: v1.NewCoffeeHandler(coffeeSvc, uSvc, f),
		cafe:   v1.NewCafeHandler(cafeSvc, uSvc),
		event:  v1.NewEventHandler(eventSvc, f),
		feed:   feed,
	}
}

// RunFeed pumps recorded events to websocket clients until ctx is done.
func (s *Server) RunFeed(ctx context.Context) {
	s.Feed.Run(ctx)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Metrics())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", h.auth.HandleSignup)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	api := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		api.GET("/users", h.user.HandleListUsers)
		api.GET("/users/me", h.user.HandleGetMe)
		api.PATCH("/users/me", h.user.HandleUpdateMe)
		api.GET("/users/me/devices", h.user.HandleListDevices)
		api.POST("/users/me/devices", h.user.HandleRegisterDevice)
		api.GET("/users/:userID", h.user.HandleGetUser)
		api.GET("/users/:userID/exchanges", h.user.HandleListExchanges)

		api.GET("/runs", h.run.HandleListRuns)
		api.POST("/runs", h.run.HandleCreateRun)
		api.GET("/runs/:runID", h.run.HandleGetRun)
		api.POST("/runs/:runID/close", h.run.HandleCloseRun)
		api.GET("/runs/:runID/orders.xlsx", h.run.HandleExportOrders)
		api.GET("/runs/:runID/qr.png", h.run.HandleRunQR)

		api.POST("/coffees", h.coffee.HandleOrderCoffee)
		api.GET("/coffees/:coffeeID", h.coffee.HandleGetCoffee)

		api.GET("/cafes", h.cafe.HandleListCafes)
		api.POST("/cafes", h.cafe.HandleCreateCafe)
		api.GET("/cafes/:cafeID", h.cafe.HandleGetCafe)
		api.DELETE("/cafes/:cafeID", h.cafe.HandleDeleteCafe)
		api.POST("/prices", h.cafe.HandleAddPrice)
		api.POST("/price-modifiers", h.cafe.HandleAddModifier)

		api.GET("/events", h.event.HandleListEvents)
		api.GET("/events/feed", h.feed.HandleFeed)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.Host()
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "coffeerun API"
	docs.SwaggerInfo.Description = "Tracks office coffee runs, orders and who owes whom."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
