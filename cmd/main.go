package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getSalonAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_salon_appointments"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	updateStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/events"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	reminderRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reminder"
	salonServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
	smsGatewayClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/smsgateway"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	dispatchService "github.com/m04kA/SMC-AppointmentService/internal/service/dispatch"
	remindersService "github.com/m04kA/SMC-AppointmentService/internal/service/reminders"
	proposeAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/propose_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Контекст фоновых воркеров (диспетчер, consumer событий)
	appCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (индекс напоминаний)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(appCtx).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем интеграционных клиентов
	salonClient := salonServiceClient.NewClient(
		cfg.SalonService.URL,
		time.Duration(cfg.SalonService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (SalonService=%s timeout=%ds)",
		cfg.SalonService.URL, cfg.SalonService.Timeout)

	// SMS шлюз: при пустом URL напоминания только логируются
	var smsSender dispatchService.SMSSender
	if cfg.SMSGateway.URL != "" {
		smsSender = smsGatewayClient.NewClient(
			cfg.SMSGateway.URL,
			cfg.SMSGateway.Token,
			time.Duration(cfg.SMSGateway.Timeout)*time.Second,
			log,
		)
		log.Info("SMS gateway configured (url=%s timeout=%ds)", cfg.SMSGateway.URL, cfg.SMSGateway.Timeout)
	} else {
		smsSender = smsGatewayClient.NewNoopClient(log)
		log.Warn("SMS gateway URL is empty, reminders will be logged instead of sent")
	}

	// Инициализируем репозитории (с метриками или без)
	var appointmentRepository *apptRepo.Repository

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = apptRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = apptRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	reminderIndex := reminderRepo.NewIndex(rdb)

	// Планировщик напоминаний: пересчитывает индекс на каждое изменение записи
	var schedulerMetrics remindersService.Metrics = remindersService.NopMetrics{}
	if cfg.Metrics.Enabled {
		schedulerMetrics = metricsCollector
	}

	leadTime := time.Duration(cfg.Reminders.LeadMinutes) * time.Minute
	reminderScheduler := remindersService.NewService(reminderIndex, leadTime, schedulerMetrics, cfg.Metrics.ServiceName, log)
	log.Info("Reminder scheduler initialized (lead=%s)", leadTime)

	// Уведомитель об изменениях записей. С Kafka пересчет напоминаний
	// выполняет consumer топика, без Kafka — синхронный вызов планировщика.
	type ChangeNotifier interface {
		OnAppointmentChanged(ctx context.Context, salonID, appointmentID int64, appt *domain.Appointment) error
	}
	var notifier ChangeNotifier

	if cfg.Kafka.Enabled {
		brokers := strings.Split(cfg.Kafka.Brokers, ",")

		publisher := events.NewPublisher(brokers, cfg.Kafka.Topic, log)
		defer publisher.Close()
		notifier = publisher

		consumer := events.NewConsumer(events.ConsumerConfig{
			Brokers: brokers,
			GroupID: cfg.Kafka.GroupID,
			Topic:   cfg.Kafka.Topic,
		}, reminderScheduler, log)
		go consumer.Run(appCtx)

		log.Info("Kafka change events enabled (brokers=%s, topic=%s, group=%s)",
			cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	} else {
		notifier = reminderScheduler
		log.Info("Kafka disabled, reminder scheduler invoked synchronously")
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		salonClient,
		notifier,
		log,
	)

	// Инициализируем use cases
	proposeAppointmentUseCase := proposeAppointmentUC.NewUseCase(
		appointmentRepository,
		salonClient,
		txMgr,
		notifier,
		log,
	)

	// Диспетчер напоминаний
	var dispatchMetrics dispatchService.Metrics = dispatchService.NopMetrics{}
	if cfg.Metrics.Enabled {
		dispatchMetrics = metricsCollector
	}

	dispatcher := dispatchService.NewService(
		reminderIndex,
		appointmentRepository,
		salonClient,
		smsSender,
		dispatchMetrics,
		log,
		dispatchService.Config{
			Interval:    time.Duration(cfg.Reminders.DispatchIntervalSeconds) * time.Second,
			SendTimeout: time.Duration(cfg.Reminders.SendTimeoutSeconds) * time.Second,
			ServiceName: cfg.Metrics.ServiceName,
		},
	)
	go dispatcher.Run(appCtx)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(proposeAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(proposeAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateStatusHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getSalonAppointments := getSalonAppointmentsHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Записи салона на день
	api.HandleFunc("/salons/{salonId}/appointments",
		getSalonAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	api.HandleFunc("/salons/{salonId}/appointments/{appointmentId}",
		getAppointment.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание записи
	protected.HandleFunc("/salons/{salonId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)

	// Перенос записи
	protected.HandleFunc("/salons/{salonId}/appointments/{appointmentId}/reschedule",
		rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// Отмена записи
	protected.HandleFunc("/salons/{salonId}/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPost)

	// Перевод записи в новый статус
	protected.HandleFunc("/salons/{salonId}/appointments/{appointmentId}/status",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые воркеры
	stopWorkers()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
