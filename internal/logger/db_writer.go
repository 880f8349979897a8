package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-backoffice/internal/database"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from zap to the worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	ActorID string
	LeadID  string
	Caller  string
}

// Log is the persisted shape of a log line.
type Log struct {
	AppID        string    `bson:"app_id" json:"app_id"`
	Message      string    `bson:"message" json:"message"`
	ActorID      string    `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	LeadID       string    `bson:"lead_id,omitempty" json:"lead_id,omitempty"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}

// LogSink persists a single log record.
type LogSink interface {
	Insert(ctx context.Context, record Log) error
}

type mongoLogSink struct {
	db *database.MongodbDB
}

func NewMongoLogSink(db *database.MongodbDB) LogSink {
	return &mongoLogSink{db: db}
}

func (s *mongoLogSink) Insert(ctx context.Context, record Log) error {
	_, err := s.db.DB.Collection("logs").InsertOne(ctx, record)
	return err
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	sink    LogSink
	logChan chan LogEntry
	appId   string
	done    chan struct{}
	once    sync.Once
}

// NewDBLogWriter starts the background worker immediately.
func NewDBLogWriter(sink LogSink, appId string) *DBLogWriter {
	writer := &DBLogWriter{
		sink:    sink,
		logChan: make(chan LogEntry, 1000),
		appId:   appId,
		done:    make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog never blocks; entries are dropped when the buffer is full.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries. Buffered entries are still flushed by the worker.
func (w *DBLogWriter) Close() {
	w.once.Do(func() { close(w.done) })
}

func (w *DBLogWriter) processLogs() {
	for {
		select {
		case entry := <-w.logChan:
			w.write(entry)
		case <-w.done:
			for {
				select {
				case entry := <-w.logChan:
					w.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (w *DBLogWriter) write(entry LogEntry) {
	record := Log{
		AppID:        w.appId,
		Message:      entry.Message,
		ActorID:      entry.ActorID,
		LeadID:       entry.LeadID,
		Caller:       entry.Caller,
		LogLevelId:   mapLevelToInt(entry.Level),
		CreatedOnUtc: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Errors are ignored so logging can never take the API down
	_ = w.sink.Insert(ctx, record)
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
