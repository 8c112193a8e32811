package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatorRegistersCustomRules(t *testing.T) {
	validate, err := newValidator()
	require.NoError(t, err)
	assert.NoError(t, validate.Struct(&ToggleRequest{Category: Physical, Label: "Wheelchair access"}))
	assert.Error(t, validate.Struct(&ToggleRequest{Category: "hobbies", Label: "Chess"}))
	assert.Error(t, validate.Struct(&UsernameChange{Username: "  "}))
}

func TestRequestValidatorIsSharedAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- (&ToggleRequest{Category: Sensory, Label: "Natural lighting"}).Validate()
			errs <- (&ToggleRequest{Category: Sensory, Label: " "}).Validate()
		}()
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 16, failures)
}
