package storage

import "fmt"

// Copy replaces both lists in dst with the lists held by src and returns
// how many active and completed tasks were copied.
func Copy(dst, src Store) (active, completed int, err error) {
	tasks, err := src.LoadActive()
	if err != nil {
		return 0, 0, fmt.Errorf("read active tasks: %w", err)
	}
	done, err := src.LoadCompleted()
	if err != nil {
		return 0, 0, fmt.Errorf("read completed tasks: %w", err)
	}

	if err := dst.SaveActive(tasks); err != nil {
		return 0, 0, fmt.Errorf("write active tasks: %w", err)
	}
	if err := dst.SaveCompleted(done); err != nil {
		return len(tasks), 0, fmt.Errorf("write completed tasks: %w", err)
	}
	return len(tasks), len(done), nil
}
