package event

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/viant/stride/service/messaging"
	"github.com/viant/stride/service/messaging/memory"
)

// Service keeps one queue, publisher and optional listener per event
// payload type.
type Service struct {
	typedPublishers map[reflect.Type]any
	typedListener   map[reflect.Type]any
	mux             sync.RWMutex
	newQueueConfig  func(name string) memory.Config
	logger          *slog.Logger
}

func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]any),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.newQueueConfig == nil {
		ret.newQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
	}
	return ret
}

func QueueOf[T any](s *Service, name string) messaging.Queue[T] {
	return memory.NewQueue[T](s.newQueueConfig(name))
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// HasListener reports whether a listener is registered for T.
func HasListener[T any](s *Service) bool {
	if s == nil {
		return false
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	_, ok := s.typedListener[keyOf[T]()]
	return ok
}

// SetListenerOf replaces the listener for T and starts it.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) {
	key := keyOf[T]()
	publisher := PublisherOf[T](s)
	s.mux.Lock()
	previous, ok := s.typedListener[key]
	listener := NewListener[T](publisher, handler, s.logger)
	s.typedListener[key] = listener
	s.mux.Unlock()
	if ok {
		previous.(*Listener[T]).Stop()
	}
	listener.Start()
}

// Close stops every listener.
func (s *Service) Close() {
	s.mux.Lock()
	listeners := s.typedListener
	s.typedListener = make(map[reflect.Type]any)
	s.mux.Unlock()
	for _, listener := range listeners {
		listener.(interface{ Stop() }).Stop()
	}
}

// PublisherOf returns the publisher for T, creating it on first use.
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok := s.typedPublishers[key]; ok {
		return ret.(*Publisher[T])
	}
	publisher := NewPublisher[T](QueueOf[Event[T]](s, key.String()))
	s.typedPublishers[key] = publisher
	return publisher
}
