package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/facewatch/attendance/internal/api"
	"github.com/facewatch/attendance/internal/attendance"
	"github.com/facewatch/attendance/internal/auth"
	"github.com/facewatch/attendance/internal/config"
	"github.com/facewatch/attendance/internal/data"
	"github.com/facewatch/attendance/internal/embedding"
	"github.com/facewatch/attendance/internal/enroll"
	"github.com/facewatch/attendance/internal/hub"
	"github.com/facewatch/attendance/internal/index"
	"github.com/facewatch/attendance/internal/middleware"
	"github.com/facewatch/attendance/internal/presence"
	"github.com/facewatch/attendance/internal/recognize"
	"github.com/facewatch/attendance/internal/worker"
)

func main() {
	configPath := flag.String("config", "config/default.yaml", "path to the service's YAML config file")
	flag.Parse()

	cfgMgr, err := config.NewManager(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := cfgMgr.Current()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("database: open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("database: ping: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis: ping: %v", err)
	}
	defer rdb.Close()

	// NoEcho: this process must not see its own presence.Aggregator
	// publishes echoed back, or rooms:all subscribers would receive every
	// local change twice (NotifyRoomChange already publishes it locally).
	nc, err := nats.Connect(cfg.NATS.URL, nats.NoEcho())
	if err != nil {
		log.Fatalf("nats: connect: %v", err)
	}
	defer nc.Close()

	embeddingClient, err := embedding.NewClient(cfg.Embedding.ServiceAddr)
	if err != nil {
		log.Fatalf("embedding: dial: %v", err)
	}
	defer embeddingClient.Close()

	if err := os.MkdirAll(cfg.Storage.IndexDir, 0o755); err != nil {
		log.Fatalf("index: create snapshot dir: %v", err)
	}
	vectorsPath := filepath.Join(cfg.Storage.IndexDir, "vectors.bin")
	slotsPath := filepath.Join(cfg.Storage.IndexDir, "slots.bin")
	idx := index.New()
	if err := idx.Load(vectorsPath, slotsPath); err != nil {
		log.Printf("index: starting empty, load failed: %v", err)
	}
	// Every structural change from here on rewrites the snapshot, so a
	// crash never leaves disk behind the DB.
	idx.AutoPersist(vectorsPath, slotsPath)

	persons := data.NewPostgresPersonRepo(db)
	rooms := data.NewPostgresRoomRepo(db)
	cameras := data.NewPostgresCameraRepo(db)
	attendanceRepo := data.NewPostgresAttendanceRepo(db)
	operators := data.NewPostgresOperatorRepo(db)

	h := hub.New(cfg.Worker.SubscriberQueue)

	location, err := time.LoadLocation(cfg.AttendanceTimezone)
	if err != nil {
		log.Fatalf("config: attendance_timezone: %v", err)
	}

	gate := attendance.NewGate(attendanceRepo, attendance.Config{
		AttendanceMin: cfg.Recognition.AttendanceMin,
		Location:      location,
		SnapshotRoot:  cfg.Storage.SnapshotRoot,
	})
	engine := recognize.NewEngine(embeddingClient, idx, recognize.Config{
		QMinRecognize:       cfg.Recognition.QMinRecognize,
		ConfidenceThreshold: float32(cfg.Recognition.ConfidenceThreshold),
	})
	aggregator := presence.NewAggregator(nc, "presence.rooms.changed", 3, h)
	if _, err := aggregator.Start(); err != nil {
		log.Fatalf("presence: subscribe aggregator: %v", err)
	}
	notifier := presence.FanoutNotifier{Notifiers: []presence.Notifier{
		&worker.PresenceHubNotifier{Hub: h},
		aggregator,
	}}
	tracker := presence.NewTracker(cfg.Presence.TTL.D(), notifier)

	coordinator := enroll.NewCoordinator(db, persons, embeddingClient, idx, tracker, enroll.Config{
		QMin:                   cfg.Recognition.QMin,
		AMin:                   cfg.Recognition.AMin,
		MaxImagesPerPerson:     cfg.Recognition.MaxImagesPerPerson,
		ImageProcessingTimeout: cfg.Recognition.ImageProcessingTimeout.D(),
		ImageRoot:              cfg.Storage.ImageRoot,
	})

	live := worker.NewLiveness(rdb, cfg.Presence.TTL.D())
	registry := worker.NewRegistry()

	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()
	go tracker.RunEvictionSweep(bgCtx, cfg.Presence.EvictionPeriod.D())
	go cfgMgr.Watch(bgCtx)

	tokens := auth.NewManager(cfg.Auth.JWTSigningKey, cfg.Auth.TokenTTL.D())
	lockout := auth.NewLockout(rdb)
	blacklist := auth.NewRedisBlacklist(rdb)
	jwtAuth := middleware.NewJWTAuth(tokens, blacklist)
	rateLimiter := middleware.NewRateLimiter(rdb, 10, time.Minute)

	mux := api.NewMux(api.Router{
		Auth:     api.NewAuthHandler(operators, tokens, lockout, blacklist),
		Students: api.NewStudentHandler(persons, coordinator),
		Attend:   api.NewAttendanceHandler(persons, attendanceRepo, engine, gate),
		Rooms: &api.RoomHandler{
			Rooms:                 rooms,
			Cameras:               cameras,
			Workers:               registry,
			Hub:                   h,
			Tracker:               tracker,
			Engine:                engine,
			Gate:                  gate,
			Live:                  live,
			RecognitionHz:         cfg.Recognition.RecognitionHz,
			StreamMaxHz:           cfg.Recognition.StreamMaxHz,
			EventCooldown:         cfg.Recognition.EventCooldown.D(),
			ConnectTimeout:        cfg.Worker.ConnectTimeout.D(),
			ShutdownGrace:         cfg.Worker.ShutdownGrace.D(),
			PersistenceFailWindow: cfg.Worker.PersistenceFailWindow.D(),
		},
		Presence: api.NewPresenceHandler(persons, tracker),
		Streams:  api.NewStreamHandler(h, tokens, blacklist, tracker, rooms, cfg.Presence.RefreshPeriod.D()),
		JWTAuth:  jwtAuth,
	}, rateLimiter)

	server := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("server: listening on %s", cfg.Server.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("server: shutdown requested")

	for _, w := range registry.List() {
		registry.Stop(w.CameraID())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server: graceful shutdown error: %v", err)
	}
	log.Println("server: stopped")
}
