// Package process drives the collection pipeline: provider names are queued,
// workers fetch, validate and normalize each provider's catalog, and once
// every enabled provider has reported, the snapshot files are rewritten.
package process

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"k8s.io/client-go/util/workqueue"

	"github.com/eSKylezZ/CloudPriceFinder/pkg/currency"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/provider"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

type Process struct {
	Fetchers        map[schema.Provider]provider.Fetcher
	Queue           workqueue.TypedDelayingInterface[string]
	Rates           *currency.Source
	Writer          *Writer
	Cache           *cache.Cache
	ScrapeInterval  time.Duration
	WorkersPoolSize int
	Logger          *zap.SugaredLogger

	mu       sync.Mutex
	errs     map[schema.Provider]string
	reported map[schema.Provider]bool
}

// Start fills the queue with every configured provider and runs the worker
// pool. It blocks until the workers exit.
func (p *Process) Start() {
	var wg sync.WaitGroup

	p.mu.Lock()
	p.errs = make(map[schema.Provider]string)
	p.reported = make(map[schema.Provider]bool)
	p.mu.Unlock()

	for name := range p.Fetchers {
		p.Queue.Add(string(name))
	}

	wg.Add(p.WorkersPoolSize)

	for i := range p.WorkersPoolSize {
		j := i
		go func() {
			defer wg.Done()
			p.execute(j)
			p.namedLogger().Debugf("########  Worker exits ########")
		}()
	}

	wg.Wait()
}

// execute is run by each worker to process an entry from the queue.
func (p *Process) execute(identifier int) {
	for {
		providerObj, shutdown := p.Queue.Get()
		if shutdown {
			return
		}

		providerName := fmt.Sprintf("%v", providerObj)

		requeue := p.processProvider(providerName, identifier)
		p.Queue.Done(providerName)

		if requeue {
			p.Queue.AddAfter(providerName, p.ScrapeInterval)
		}
	}
}
