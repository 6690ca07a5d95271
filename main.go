package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-storefront/pkg/cart"
	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/presentation"
	"github.com/matst80/slask-storefront/pkg/server"
	"github.com/matst80/slask-storefront/pkg/tracking"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var catalogUrl = os.Getenv("CATALOG_URL")
var rabbitUrl = os.Getenv("RABBIT_URL")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var cartDataPath = os.Getenv("CART_DATA_PATH")
var listenAddress = ":8080"
var debugAddress = ":8081"
var eventPrefix = "storefront"

func init() {
	flag.Parse()

	if addr, ok := os.LookupEnv("LISTEN_ADDRESS"); ok {
		listenAddress = addr
	}
	if prefix, ok := os.LookupEnv("EVENT_PREFIX"); ok {
		eventPrefix = prefix
	}
	if cartDataPath == "" {
		cartDataPath = "data/carts"
	}
}

// cartStorage prefers redis and falls back to local disk when no redis url is
// configured.
func cartStorage() cart.Storage {
	if redisUrl != "" {
		log.Printf("Using redis cart storage at %s", redisUrl)
		return cart.NewRedisCartStorage(redisUrl, redisPassword, 0, 30*24*time.Hour)
	}
	log.Printf("Using disk cart storage at %s", cartDataPath)
	return cart.NewDiskCartStorage(cartDataPath)
}

func connectRefreshListener(srv *server.StorefrontServer) {
	conn, err := amqp.DialConfig(rabbitUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ for refresh listener: %v", err)
		return
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Printf("Failed to open refresh channel: %v", err)
		return
	}
	err = messaging.ListenToTopic(ch, eventPrefix, messaging.CatalogRefreshTopic, func(d amqp.Delivery) error {
		log.Printf("Got catalog refresh trigger")
		return srv.RefreshCatalog(context.Background())
	})
	if err != nil {
		log.Printf("Failed to listen for catalog refresh: %v", err)
		return
	}
	log.Printf("Listening for catalog refresh triggers")
}

func main() {
	var cache *server.Cache
	if redisUrl != "" {
		cache = server.NewCache(redisUrl, redisPassword, 1)
		defer cache.Close()
	}

	var gateway presentation.Gateway = presentation.LogGateway{}
	var tracker tracking.Tracking
	if rabbitUrl != "" {
		rabbitGateway, err := presentation.NewRabbitGateway(rabbitUrl, eventPrefix)
		if err != nil {
			log.Printf("Failed to connect presentation gateway: %v", err)
		} else {
			gateway = rabbitGateway
			defer rabbitGateway.Close()
		}
		rabbitTracking, err := tracking.NewRabbitTracking(rabbitUrl, eventPrefix)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
		} else {
			tracker = rabbitTracking
			defer rabbitTracking.Close()
		}
	}

	srv := server.NewStorefrontServer(catalog.NewClient(catalogUrl), cache, gateway)
	srv.Tracking = tracker
	srv.LoadInitial(context.Background())

	if rabbitUrl != "" {
		connectRefreshListener(srv)
	}

	cartServer := &cart.CartServer{
		Registry: cart.NewRegistry(cartStorage()),
		Items:    srv.Snapshot,
		Gateway:  gateway,
		Tracking: tracker,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/categories", common.JsonHandler(tracker, srv.GetCategories))
	mux.HandleFunc("GET /api/products", common.JsonHandler(tracker, srv.GetProducts))
	mux.HandleFunc("GET /api/products/{id}", common.JsonHandler(tracker, srv.GetProduct))
	mux.HandleFunc("DELETE /api/products/detail", common.JsonHandler(tracker, srv.HideDetail))
	mux.Handle("/api/cart/", http.StripPrefix("/api/cart", cartServer.CartHandler()))

	go func() {
		debugMux := http.NewServeMux()
		debugMux.Handle("/metrics", promhttp.Handler())
		if enableProfiling != nil && *enableProfiling {
			log.Println("Profiling enabled")
			debugMux.HandleFunc("/debug/pprof/", pprof.Index)
			debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		}
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	httpServer := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)
	common.RunServerWithShutdown(httpServer, "storefront api", timeouts.Shutdown, timeouts.Hook)
}
