package routing

// Service is anything with a start/stop lifecycle: contexts, endpoints
// and consumers all implement it.
type Service interface {
	Start() error
	Stop() error
}

// StartServices starts the given services in order. If one fails, the
// services already started are stopped again in reverse order and the
// original error is returned.
func StartServices(svcs ...Service) error {
	for i, s := range svcs {
		if err := s.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = svcs[j].Stop()
			}
			return err
		}
	}
	return nil
}

// StopServices stops the given services in order. Every service is
// attempted; the first error wins.
func StopServices(svcs ...Service) error {
	var first error
	for _, s := range svcs {
		if err := s.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
