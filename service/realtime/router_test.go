package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDeliversExactlyOncePerHandler(t *testing.T) {
	r := NewRouter()
	var a, b int
	r.On(KindRefreshAssignments, func(Event) { a++ })
	r.On(KindRefreshAssignments, func(Event) { b++ })
	r.On(KindRefreshPaysheets, func(Event) { t.Fatal("wrong kind delivered") })

	r.Emit(RefreshAssignments{})

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestOffStopsDelivery(t *testing.T) {
	r := NewRouter()
	var n int
	sub := r.On(KindRefreshAssignments, func(Event) { n++ })

	r.Emit(RefreshAssignments{})
	r.Off(sub)
	r.Emit(RefreshAssignments{})

	assert.Equal(t, 1, n)
}

func TestHandlerMayRegisterDuringEmit(t *testing.T) {
	r := NewRouter()
	var late int
	r.On(KindConnected, func(Event) {
		r.On(KindRefreshAssignments, func(Event) { late++ })
	})

	r.Emit(Connected{})
	r.Emit(RefreshAssignments{})

	assert.Equal(t, 1, late)
}

func TestScopeCloseDeregistersEverything(t *testing.T) {
	r := NewRouter()
	s := r.NewScope()
	var n int
	s.On(KindRefreshAssignments, func(Event) { n++ })
	s.On(KindRefreshPaysheets, func(Event) { n++ })

	r.Emit(RefreshAssignments{})
	r.Emit(RefreshPaysheets{})
	require.Equal(t, 2, n)

	s.Close()
	r.Emit(RefreshAssignments{})
	r.Emit(RefreshPaysheets{})
	assert.Equal(t, 2, n)

	// a closed scope ignores further registrations
	s.On(KindRefreshAssignments, func(Event) { n++ })
	r.Emit(RefreshAssignments{})
	assert.Equal(t, 2, n)
}

func TestScopesAreIndependent(t *testing.T) {
	r := NewRouter()
	s1, s2 := r.NewScope(), r.NewScope()
	var n1, n2 int
	s1.On(KindRefreshAssignments, func(Event) { n1++ })
	s2.On(KindRefreshAssignments, func(Event) { n2++ })

	s1.Close()
	r.Emit(RefreshAssignments{})

	assert.Equal(t, 0, n1)
	assert.Equal(t, 1, n2)
}
