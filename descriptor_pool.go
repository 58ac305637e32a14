package corevk

import (
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// DescriptorCounts is the 7-tuple of spec §4.2 plus the set count.
type DescriptorCounts struct {
	UniformBuffers        uint32
	DynamicUniformBuffers uint32
	SampledImages         uint32
	Samplers              uint32
	StorageBuffers        uint32
	DynamicStorageBuffers uint32
	StorageImages         uint32
	Sets                  uint32
}

func (c DescriptorCounts) poolSizes() []vk.DescriptorPoolSize {
	type kc struct {
		t vk.DescriptorType
		n uint32
	}
	kinds := []kc{
		{vk.DescriptorTypeUniformBuffer, c.UniformBuffers},
		{vk.DescriptorTypeUniformBufferDynamic, c.DynamicUniformBuffers},
		{vk.DescriptorTypeSampledImage, c.SampledImages},
		{vk.DescriptorTypeSampler, c.Samplers},
		{vk.DescriptorTypeStorageBuffer, c.StorageBuffers},
		{vk.DescriptorTypeStorageBufferDynamic, c.DynamicStorageBuffers},
		{vk.DescriptorTypeStorageImage, c.StorageImages},
	}
	sizes := make([]vk.DescriptorPoolSize, 0, len(kinds))
	for _, k := range kinds {
		if k.n > 0 {
			sizes = append(sizes, vk.DescriptorPoolSize{Type: k.t, DescriptorCount: k.n})
		}
	}
	return sizes
}

func (c DescriptorCounts) subtract(o DescriptorCounts) DescriptorCounts {
	c.UniformBuffers -= o.UniformBuffers
	c.DynamicUniformBuffers -= o.DynamicUniformBuffers
	c.SampledImages -= o.SampledImages
	c.Samplers -= o.Samplers
	c.StorageBuffers -= o.StorageBuffers
	c.DynamicStorageBuffers -= o.DynamicStorageBuffers
	c.StorageImages -= o.StorageImages
	c.Sets -= o.Sets
	return c
}

func (c DescriptorCounts) add(o DescriptorCounts) DescriptorCounts {
	c.UniformBuffers += o.UniformBuffers
	c.DynamicUniformBuffers += o.DynamicUniformBuffers
	c.SampledImages += o.SampledImages
	c.Samplers += o.Samplers
	c.StorageBuffers += o.StorageBuffers
	c.DynamicStorageBuffers += o.DynamicStorageBuffers
	c.StorageImages += o.StorageImages
	c.Sets += o.Sets
	return c
}

// fits reports whether every field of req is <= the corresponding field of
// c — a pure, driver-call-free check used before attempting a driver
// allocation, per spec §4.2 ("tracks remaining per-kind counts locally to
// avoid a driver round-trip for the obviously-full case").
func (c DescriptorCounts) fits(req DescriptorCounts) bool {
	return req.UniformBuffers <= c.UniformBuffers &&
		req.DynamicUniformBuffers <= c.DynamicUniformBuffers &&
		req.SampledImages <= c.SampledImages &&
		req.Samplers <= c.Samplers &&
		req.StorageBuffers <= c.StorageBuffers &&
		req.DynamicStorageBuffers <= c.DynamicStorageBuffers &&
		req.StorageImages <= c.StorageImages &&
		req.Sets <= c.Sets
}

// DescriptorToken must be returned to its originating pool on free, per
// spec §3's DescriptorAllocationToken.
type DescriptorToken struct {
	pool   *descriptorPool
	set    vk.DescriptorSet
	counts DescriptorCounts
}

func (t *DescriptorToken) Set() vk.DescriptorSet { return t.set }

type descriptorPool struct {
	handle    vk.DescriptorPool
	capacity  DescriptorCounts
	remaining DescriptorCounts
}

// DescriptorPoolManager grows a list of fixed-capacity descriptor pools and
// satisfies allocate/free against them, spec §4.2. Grounded on
// other_examples' gviegas-neo3 descHeap (per-kind pool sizing) and
// mrigankad-gorenderengine's pool-on-demand growth, translated to
// vulkan-go/vulkan.
type DescriptorPoolManager struct {
	device   vk.Device
	capacity DescriptorCounts

	lk    sync.Mutex // descriptorPoolLock, §5
	pools []*descriptorPool
}

func newDescriptorPoolManager(d *Device, perKindCapacity uint32) *DescriptorPoolManager {
	cap := DescriptorCounts{
		UniformBuffers:        perKindCapacity,
		DynamicUniformBuffers: perKindCapacity,
		SampledImages:         perKindCapacity,
		Samplers:              perKindCapacity,
		StorageBuffers:        perKindCapacity,
		DynamicStorageBuffers: perKindCapacity,
		StorageImages:         perKindCapacity,
		Sets:                  perKindCapacity,
	}
	return &DescriptorPoolManager{device: d.adapter.Device, capacity: cap}
}

func (m *DescriptorPoolManager) newPool() (*descriptorPool, error) {
	sizes := m.capacity.poolSizes()
	var handle vk.DescriptorPool
	ret := vk.CreateDescriptorPool(m.device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       m.capacity.Sets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}
	return &descriptorPool{handle: handle, capacity: m.capacity, remaining: m.capacity}, nil
}

// Allocate implements spec §4.2's allocate(counts, set-layout) -> token.
func (m *DescriptorPoolManager) Allocate(counts DescriptorCounts, layout vk.DescriptorSetLayout) (*DescriptorToken, error) {
	m.lk.Lock()
	defer m.lk.Unlock()

	if len(m.pools) == 0 {
		p, err := m.newPool()
		if err != nil {
			return nil, err
		}
		m.pools = append(m.pools, p)
	}

	for attempt := 0; attempt < 2; attempt++ {
		p := m.pools[len(m.pools)-1]
		if !p.remaining.fits(counts) {
			if np, err := m.newPool(); err == nil {
				m.pools = append(m.pools, np)
				continue
			} else {
				return nil, err
			}
		}
		var set vk.DescriptorSet
		layouts := []vk.DescriptorSetLayout{layout}
		ret := vk.AllocateDescriptorSets(m.device, &vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     p.handle,
			DescriptorSetCount: 1,
			PSetLayouts:        layouts,
		}, &set)
		switch ret {
		case vk.Success:
			p.remaining = p.remaining.subtract(counts)
			return &DescriptorToken{pool: p, set: set, counts: counts}, nil
		case vk.ErrorFragmentedPool, vk.ErrorOutOfPoolMemory:
			np, err := m.newPool()
			if err != nil {
				return nil, err
			}
			m.pools = append(m.pools, np)
			continue
		default:
			return nil, vkErr(ret)
		}
	}
	return nil, newErr(KindGraphicsError)
}

// Free returns a token's descriptor set and restores its counts to the
// originating pool, spec §4.2 "Freeing".
func (m *DescriptorPoolManager) Free(t *DescriptorToken) error {
	m.lk.Lock()
	defer m.lk.Unlock()
	sets := []vk.DescriptorSet{t.set}
	ret := vk.FreeDescriptorSets(m.device, t.pool.handle, 1, sets)
	if isError(ret) {
		return vkErr(ret)
	}
	t.pool.remaining = t.pool.remaining.add(t.counts)
	return nil
}

func (m *DescriptorPoolManager) destroy() {
	m.lk.Lock()
	defer m.lk.Unlock()
	for _, p := range m.pools {
		vk.DestroyDescriptorPool(m.device, p.handle, nil)
	}
	m.pools = nil
}
