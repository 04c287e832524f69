package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"romix-storefront/models"
)

// fakeRemote is a scripted RemoteClientInterface
type fakeRemote struct {
	mu sync.Mutex

	products    []models.Product
	productsErr error
	file        []models.Product
	fileErr     error
	variants    []models.Variant
	variantsErr error

	productCalls int
	fileCalls    int
	sections     []string
	locations    []string

	// when gate is set FetchProducts signals started and waits for gate to close
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeRemote) FetchProducts(ctx context.Context, section string) ([]models.Product, error) {
	f.mu.Lock()
	f.productCalls++
	f.sections = append(f.sections, section)
	first := f.productCalls == 1
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if gate != nil {
		if first && started != nil {
			close(started)
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeRemote) FetchVariants(ctx context.Context) ([]models.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.variantsErr != nil {
		return nil, f.variantsErr
	}
	return append([]models.Variant(nil), f.variants...), nil
}

func (f *fakeRemote) FetchDataFile(ctx context.Context, location string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fileCalls++
	f.locations = append(f.locations, location)
	if f.fileErr != nil {
		return nil, f.fileErr
	}
	return append([]models.Product(nil), f.file...), nil
}

func (f *fakeRemote) calls() (products, file int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productCalls, f.fileCalls
}

// staticProducts serves a fixed catalog
type staticProducts []models.Product

func (s staticProducts) Load(ctx context.Context, opts LoadOptions) []models.Product {
	return append([]models.Product(nil), s...)
}

func (s staticProducts) Clear(ctx context.Context) {}

var errStoreDown = errors.New("store down")

// failingStore fails every operation
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errStoreDown
}

func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errStoreDown
}

func (failingStore) Remove(ctx context.Context, key string) error {
	return errStoreDown
}

// ttlStore records SetWithTTL calls on top of a map
type ttlStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newTTLStore() *ttlStore {
	return &ttlStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *ttlStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *ttlStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *ttlStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *ttlStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func mustSanitizer(policy HiddenPolicy) *Sanitizer {
	s, err := NewSanitizer(policy, "", "invierno")
	if err != nil {
		panic(err)
	}
	return s
}
