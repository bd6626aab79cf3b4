package services

import (
	"sync"

	quotes "github.com/quoteline/crypto-quotes"
)

// Service fetches the latest quotes once and fans the snapshot out to every
// configured storage.
type Service struct {
	Fetcher quotes.Fetcher
	Storage []quotes.Storage
}

func saveToStorage(
	wg *sync.WaitGroup,
	currencies []quotes.Currency,
	data map[string][]quotes.CurrencyWithID,
	storage quotes.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()
	c, err := storage.Store(currencies)

	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	data[storage.GetStorageProviderName()] = c
	mutex.Unlock()
}

func (f Service) Save(symbolsToFetch []string) (map[string][]quotes.CurrencyWithID, error) {
	var wg sync.WaitGroup
	mutex := &sync.RWMutex{}

	fetchedCurrencies, err := f.Fetcher.Fetch(symbolsToFetch)
	if err != nil {
		return nil, err
	}

	errorChannel := make(chan error, len(f.Storage))
	data := make(map[string][]quotes.CurrencyWithID)

	wg.Add(len(f.Storage))
	for _, storage := range f.Storage {
		go saveToStorage(&wg, fetchedCurrencies, data, storage, errorChannel, mutex)
	}

	go func(wg *sync.WaitGroup, errorChannel chan error) {
		wg.Wait()
		close(errorChannel)
	}(&wg, errorChannel)

	if err, more := <-errorChannel; more {
		return nil, err
	}

	return data, nil
}
