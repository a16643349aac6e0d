package immutability

import (
	"reflect"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// publication is written by one goroutine, then closed; readers that observe
// the close must observe every prior write.
type publication struct {
	closed  atomic.Bool
	payload []int
	sum     int
}

func (p *publication) IsClosed() bool { return p.closed.Load() }

func (p *publication) publish(n int) {
	for i := 1; i <= n; i++ {
		p.payload = append(p.payload, i)
		p.sum += i
	}
	p.closed.Store(true)
}

// TestRegistry_Verify_LatchHappensBefore stresses cross-goroutine visibility
// of writes made before a latch closes. Run with -race.
func TestRegistry_Verify_LatchHappensBefore(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	const (
		rounds  = 200
		readers = 4
		size    = 64
	)
	wantSum := size * (size + 1) / 2

	for range rounds {
		pub := &publication{}

		var g errgroup.Group
		for range readers {
			g.Go(func() error {
				for reg.Verify(pub) != LatchGuarded {
					runtime.Gosched()
				}
				assert.Len(t, pub.payload, size)
				assert.Equal(t, wantSum, pub.sum)
				return nil
			})
		}
		g.Go(func() error {
			pub.publish(size)
			return nil
		})
		require.NoError(t, g.Wait())
	}
}

// TestRegistry_Verify_NestedLatchHappensBefore repeats the visibility check
// through a product component.
func TestRegistry_Verify_NestedLatchHappensBefore(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	type Wrapper struct {
		Pub *publication
		ID  int
	}
	require.Equal(t, LatchGuarded, reg.Classify(reflect.TypeOf(Wrapper{})))

	for range 100 {
		w := Wrapper{Pub: &publication{}, ID: 1}

		var g errgroup.Group
		g.Go(func() error {
			for reg.Verify(w) != LatchGuarded {
				runtime.Gosched()
			}
			assert.Equal(t, 8*9/2, w.Pub.sum)
			return nil
		})
		g.Go(func() error {
			w.Pub.publish(8)
			return nil
		})
		require.NoError(t, g.Wait())
	}
}

// TestRegistry_ConcurrentWrites hammers one registry from many goroutines.
// Locked entries must survive untouched and every unlocked type must end in
// a state some writer produced.
func TestRegistry_ConcurrentWrites(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	types := []reflect.Type{typeOf[Money](), typeOf[Flags](), typeOf[opaqueCache](), typeOf[Tagged]()}
	locked := typeOf[string]()

	var g errgroup.Group
	g.SetLimit(16)
	for i := range 400 {
		typ := types[i%len(types)]
		level := Levels()[i%4]
		g.Go(func() error {
			switch i % 5 {
			case 0:
				reg.RegisterOverride(typ, level)
			case 1:
				reg.Deregister(typ)
			case 2:
				reg.AutoDetect(typ)
			case 3:
				reg.RegisterVerified(typ, reg.Classify(typ))
			default:
				reg.Lookup(typ)
			}
			if reg.RegisterOverride(locked, Unverified) || reg.Deregister(locked) {
				t.Error("locked entry accepted a write")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	c, ok := reg.Lookup(locked)
	require.True(t, ok)
	assert.Equal(t, PlatformConstant, c)

	for _, typ := range types {
		if c, ok := reg.Lookup(typ); ok {
			assert.True(t, c.Valid(), "%s holds %s", typ, c)
		}
	}
}

// TestRegistry_ConcurrentOverrideVisibility checks a write is visible to
// later lookups from other goroutines.
func TestRegistry_ConcurrentOverrideVisibility(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	typ := typeOf[opaqueCache]()
	require.True(t, reg.RegisterOverride(typ, ConstructionInvariant))

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			c, ok := reg.Lookup(typ)
			assert.True(t, ok)
			assert.Equal(t, ConstructionInvariant, c)
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
