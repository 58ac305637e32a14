package corevk

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ResourceKind tags the variant stored in the registry, replacing the
// source's class hierarchy with the tagged-variant approach spec §9
// prescribes ("Runtime polymorphism over GPU resources").
type ResourceKind int

const (
	KindResourceBuffer ResourceKind = iota
	KindResourceTexture
	KindResourceTextureView
	KindResourceSampler
	KindResourceShader
	KindResourceLayout
	KindResourceSet
	KindResourcePipeline
	KindResourceFramebuffer
	KindResourceFence
	KindResourceSwapchain
)

// Resource is the common surface every ref-counted GPU object implements.
type Resource interface {
	ID() uuid.UUID
	Kind() ResourceKind
	Retain()
	Release()
	Disposed() bool
}

// resourceBase is the intrusive ref-count embedded in every concrete
// resource type, per spec §4.5/§9. destroyNow is invoked at most once, when
// the count reaches zero, via the owning Device's deferred-destroy queue
// rather than synchronously, so destruction never races an in-flight
// command buffer.
type resourceBase struct {
	id       uuid.UUID
	kind     ResourceKind
	refcount int32
	disposed int32
	registry *ResourceRegistry
	destroy  func()
}

func newResourceBase(registry *ResourceRegistry, kind ResourceKind, destroy func()) resourceBase {
	return resourceBase{
		id:       uuid.New(),
		kind:     kind,
		refcount: 1,
		registry: registry,
		destroy:  destroy,
	}
}

func (r *resourceBase) ID() uuid.UUID      { return r.id }
func (r *resourceBase) Kind() ResourceKind { return r.kind }
func (r *resourceBase) Disposed() bool     { return atomic.LoadInt32(&r.disposed) != 0 }

func (r *resourceBase) Retain() {
	atomic.AddInt32(&r.refcount, 1)
}

// Release decrements the ref-count; at zero it enqueues the resource's
// private destroy onto the registry's deferred-destroy queue rather than
// running it inline, per spec §4.5.
func (r *resourceBase) Release() {
	if atomic.AddInt32(&r.refcount, -1) > 0 {
		return
	}
	if !atomic.CompareAndSwapInt32(&r.disposed, 0, 1) {
		return
	}
	r.registry.enqueueDestroy(r.destroy)
}
