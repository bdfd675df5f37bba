package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meteoalerte/internal/model"
)

// stubPlatform scripts the platform's permission answers.
type stubPlatform struct {
	current PermissionState
	answer  PermissionState
	err     error
	release chan struct{} // when non-nil, Request blocks until closed
}

func (p *stubPlatform) Current(context.Context) PermissionState { return p.current }

func (p *stubPlatform) Request(context.Context) (PermissionState, error) {
	if p.release != nil {
		<-p.release
	}
	return p.answer, p.err
}

func TestPermissionInitializedFromPlatform(t *testing.T) {
	m := NewPermissionManager(context.Background(), &stubPlatform{current: PermissionDenied})
	assert.Equal(t, PermissionDenied, m.State())
	assert.False(t, m.Granted())
}

func TestRequestGranted(t *testing.T) {
	m := NewPermissionManager(context.Background(),
		&stubPlatform{current: PermissionPrompt, answer: PermissionGranted})

	state, err := m.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, state)
	assert.True(t, m.Granted())
}

func TestRequestDeniedSurfacesError(t *testing.T) {
	m := NewPermissionManager(context.Background(),
		&stubPlatform{current: PermissionPrompt, answer: PermissionDenied})

	state, err := m.Request(context.Background())
	require.Error(t, err)
	assert.Equal(t, PermissionDenied, state)

	appErr, ok := model.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeNotificationDenied, appErr.Code)
}

func TestRequestUnsupportedIsTerminal(t *testing.T) {
	m := NewPermissionManager(context.Background(), &stubPlatform{current: PermissionUnsupported})

	state, err := m.Request(context.Background())
	require.Error(t, err)
	assert.Equal(t, PermissionUnsupported, state)
}

func TestRequestWhilePendingIsRejected(t *testing.T) {
	release := make(chan struct{})
	platform := &stubPlatform{current: PermissionPrompt, answer: PermissionGranted, release: release}
	m := NewPermissionManager(context.Background(), platform)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := m.Request(context.Background())
		assert.NoError(t, err)
	}()

	// wait until the first request has claimed the pending slot
	for {
		m.mu.Lock()
		pending := m.pending
		m.mu.Unlock()
		if pending {
			break
		}
	}

	_, err := m.Request(context.Background())
	require.Error(t, err)
	appErr, ok := model.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeNotificationPending, appErr.Code)

	close(release)
	wg.Wait()
	assert.Equal(t, PermissionGranted, m.State())
}

func TestRequestFailureKeepsPriorState(t *testing.T) {
	m := NewPermissionManager(context.Background(),
		&stubPlatform{current: PermissionPrompt, answer: PermissionPrompt, err: context.DeadlineExceeded})

	_, err := m.Request(context.Background())
	require.Error(t, err)
	assert.Equal(t, PermissionPrompt, m.State())

	// the pending slot is released on failure
	m2 := &stubPlatform{current: PermissionPrompt, answer: PermissionGranted}
	m.platform = m2
	_, err = m.Request(context.Background())
	assert.NoError(t, err)
}
