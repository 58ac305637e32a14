package corevk

import (
	"errors"
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// Pure selection helpers, factored out of the teacher's NewCoreSwapchain so
// the §4.4 format/present-mode/image-count/sharing-mode/extent decisions can
// be exercised without a live surface.

// selectSurfaceFormat implements §4.4's surface-format selection. A surface
// reporting a single UNDEFINED format means "any format"; colorSrgb then
// picks between B8G8R8A8_SRGB and B8G8R8A8_UNORM directly. Otherwise the
// desired (format, colorSpace) pair is searched for; failing to find it on
// the sRGB path is a hard error, the non-sRGB path falls back to formats[0].
func selectSurfaceFormat(formats []vk.SurfaceFormat, colorSrgb bool) (vk.SurfaceFormat, error) {
	desired := vk.FormatB8g8r8a8Unorm
	if colorSrgb {
		desired = vk.FormatB8g8r8a8Srgb
	}

	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return vk.SurfaceFormat{Format: desired, ColorSpace: vk.ColorSpaceSrgbNonlinear}, nil
	}

	for _, f := range formats {
		if f.Format == desired && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f, nil
		}
	}
	if colorSrgb {
		return vk.SurfaceFormat{}, newErr(KindSwapchainFormatUnsupported)
	}
	if len(formats) == 0 {
		return vk.SurfaceFormat{Format: desired, ColorSpace: vk.ColorSpaceSrgbNonlinear}, nil
	}
	return formats[0], nil
}

// selectPresentMode implements §4.4's present-mode policy: syncToVBlank
// prefers FIFO_RELAXED (FIFO is always supported so it is the guaranteed
// fallback); otherwise MAILBOX, then IMMEDIATE, then FIFO.
func selectPresentMode(available []vk.PresentMode, syncToVBlank bool) vk.PresentMode {
	has := func(want vk.PresentMode) bool {
		for _, m := range available {
			if m == want {
				return true
			}
		}
		return false
	}
	if syncToVBlank {
		if has(vk.PresentModeFifoRelaxed) {
			return vk.PresentModeFifoRelaxed
		}
		return vk.PresentModeFifo
	}
	if has(vk.PresentModeMailbox) {
		return vk.PresentModeMailbox
	}
	if has(vk.PresentModeImmediate) {
		return vk.PresentModeImmediate
	}
	return vk.PresentModeFifo
}

// computeImageCount implements §4.4's image-count formula:
// min(maxImageCount==0 ? ∞ : maxImageCount, minImageCount+1).
func computeImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func computeSharingMode(mainFamily, presentFamily int) (vk.SharingMode, []uint32) {
	if mainFamily == presentFamily {
		return vk.SharingModeExclusive, nil
	}
	return vk.SharingModeConcurrent, []uint32{uint32(mainFamily), uint32(presentFamily)}
}

func clampExtent(caps vk.SurfaceCapabilities, fallback vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	extent := fallback
	if extent.Width < caps.MinImageExtent.Width {
		extent.Width = caps.MinImageExtent.Width
	}
	if extent.Width > caps.MaxImageExtent.Width {
		extent.Width = caps.MaxImageExtent.Width
	}
	if extent.Height < caps.MinImageExtent.Height {
		extent.Height = caps.MinImageExtent.Height
	}
	if extent.Height > caps.MaxImageExtent.Height {
		extent.Height = caps.MaxImageExtent.Height
	}
	return extent
}

// isMinimized implements §4.4's recreation guard: both the min and max
// extents reporting zero means the surface is minimized and no swapchain
// can be created against it.
func isMinimized(caps vk.SurfaceCapabilities) bool {
	return caps.MinImageExtent.Width == 0 && caps.MinImageExtent.Height == 0 &&
		caps.MaxImageExtent.Width == 0 && caps.MaxImageExtent.Height == 0
}

func selectDepthFormat(supported func(vk.Format) bool, candidates []vk.Format) (vk.Format, bool) {
	for _, f := range candidates {
		if supported(f) {
			return f, true
		}
	}
	return vk.FormatUndefined, false
}

var depthFormatCandidates = []vk.Format{
	vk.FormatD32SfloatS8Uint,
	vk.FormatD32Sfloat,
	vk.FormatD24UnormS8Uint,
	vk.FormatD16UnormS8Uint,
	vk.FormatD16Unorm,
}

func selectCompositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	candidates := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for _, c := range candidates {
		if supported&vk.CompositeAlphaFlags(c) != 0 {
			return c
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// SwapchainDesc is the createSwapchain argument of spec §6:
// {surface, width, height, depthFormat?, syncToVBlank, colorSrgb}.
// Surface is an already-created VkSurfaceKHR; SwapchainDesc does not take a
// SurfaceSource and CreateSwapchain creates no surface itself.
// DepthFormat is optional; vk.FormatUndefined means "auto-select".
type SwapchainDesc struct {
	Surface      vk.Surface
	Width        uint32
	Height       uint32
	DepthFormat  vk.Format
	SyncToVBlank bool
	ColorSrgb    bool
}

// swapImage is one per-image slot of the swapchain's framebuffer set: the
// raw color image handed to us by the presentation engine, its view, and
// one framebuffer per render-pass variant sharing the depth attachment.
type swapImage struct {
	image        vk.Image
	view         vk.ImageView
	framebuffers [3]vk.Framebuffer // indexed by renderPassVariant
}

var errSwapchainNeedsRecreate = errors.New("corevk: swapchain out of date")

// Swapchain owns the presentable images, their views and framebuffers, the
// shared depth attachment, the three compatibility render passes, and the
// per-frame sync objects. Grounded on the teacher's swapchain.go
// NewCoreSwapchain/CreateFrameBuffer and context.go's frame-lag semaphore
// and per-frame fence bookkeeping, restructured around spec §4.4's
// acquire/present contract: the swapchain keeps one image pre-acquired at
// all times so swapBuffers() never blocks the caller on a fresh acquire.
type Swapchain struct {
	resourceBase
	device *Device
	lk     sync.Mutex // swapchainLock, §5

	surface             vk.Surface
	width               uint32
	height              uint32
	syncToVBlank        bool
	colorSrgb           bool
	depthFormatOverride vk.Format

	handle        vk.Swapchain
	format        vk.SurfaceFormat
	depthFormat   vk.Format
	extent        vk.Extent2D
	presentMode   vk.PresentMode
	presentQueue  vk.Queue
	presentFamily int

	images []swapImage

	depthTex  *Texture
	depthView *TextureView

	renderPasses [3]vk.RenderPass

	frameLag       int
	currentFrame   int
	imageAvailable []vk.Semaphore
	renderFinished []vk.Semaphore
	frameFences    []*Fence

	// acquired tracks whether curImage/curWaitSem/curSignalSem name a real
	// pre-acquired image (false while minimized, and after an acquire that
	// hit OUT_OF_DATE/SUBOPTIMAL and recreated the swapchain).
	acquired     bool
	curImage     uint32
	curWaitSem   vk.Semaphore
	curSignalSem vk.Semaphore
}

func createSemaphore(device vk.Device) (vk.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}, nil, &sem)
	if isError(ret) {
		return vk.NullSemaphore, vkErr(ret)
	}
	return sem, nil
}

func createColorView(device vk.Device, image vk.Image, format vk.Format) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		return vk.NullImageView, vkErr(ret)
	}
	return view, nil
}

// CreateSwapchain implements spec §6's createSwapchain.
func CreateSwapchain(d *Device, desc SwapchainDesc) (*Swapchain, error) {
	s := &Swapchain{
		device:              d,
		surface:             desc.Surface,
		width:               desc.Width,
		height:              desc.Height,
		syncToVBlank:        desc.SyncToVBlank,
		colorSrgb:           desc.ColorSrgb,
		depthFormatOverride: desc.DepthFormat,
		frameLag:            d.opts.FrameLag,
	}
	ok, err := s.rebuild(vk.NullSwapchain)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newErr(KindSurfaceLost)
	}
	acquired, err := s.acquireLocked()
	if err != nil {
		return nil, err
	}
	s.acquired = acquired
	s.resourceBase = newResourceBase(d.registry, KindResourceSwapchain, s.destroyNow)
	return s, nil
}

// rebuild queries the surface's current capabilities and (re)builds the
// swapchain against them, per §4.4's Recreation steps. It reports false,
// nil when the surface is minimized rather than creating anything.
func (s *Swapchain) rebuild(old vk.Swapchain) (bool, error) {
	d := s.device
	gpu := d.adapter.PhysicalDevice

	var caps vk.SurfaceCapabilities
	if ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, s.surface, &caps); isError(ret) {
		return false, vkErr(ret)
	}
	caps.Deref()

	if isMinimized(caps) {
		return false, nil
	}

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(gpu, s.surface, &formatCount, nil)
	formats := make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(gpu, s.surface, &formatCount, formats)
	for i := range formats {
		formats[i].Deref()
	}
	format, err := selectSurfaceFormat(formats, s.colorSrgb)
	if err != nil {
		return false, err
	}

	var modeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, s.surface, &modeCount, nil)
	modes := make([]vk.PresentMode, modeCount)
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, s.surface, &modeCount, modes)
	presentMode := selectPresentMode(modes, s.syncToVBlank)

	presentFamily, ok := d.queues.presentQueueFamily(d.mainFamily, s.surface)
	if !ok {
		return false, newErr(KindNoPresentQueue)
	}

	extent := clampExtent(caps, vk.Extent2D{Width: s.width, Height: s.height})
	imageCount := computeImageCount(caps)
	sharingMode, families := computeSharingMode(d.mainFamily, presentFamily)
	compositeAlpha := selectCompositeAlpha(caps.SupportedCompositeAlpha)

	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	info := vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               s.surface,
		MinImageCount:         imageCount,
		ImageFormat:           format.Format,
		ImageColorSpace:       format.ColorSpace,
		ImageExtent:           extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharingMode,
		PreTransform:          preTransform,
		CompositeAlpha:        compositeAlpha,
		PresentMode:           presentMode,
		Clipped:               vk.True,
		OldSwapchain:          old,
		QueueFamilyIndexCount: uint32(len(families)),
		PQueueFamilyIndices:   families,
	}
	var handle vk.Swapchain
	if ret := vk.CreateSwapchain(d.adapter.Device, &info, nil, &handle); isError(ret) {
		return false, vkErr(ret)
	}
	if old != vk.NullSwapchain {
		vk.DestroySwapchain(d.adapter.Device, old, nil)
	}

	var rawCount uint32
	vk.GetSwapchainImages(d.adapter.Device, handle, &rawCount, nil)
	rawImages := make([]vk.Image, rawCount)
	vk.GetSwapchainImages(d.adapter.Device, handle, &rawCount, rawImages)

	images := make([]swapImage, rawCount)
	for i, img := range rawImages {
		view, err := createColorView(d.adapter.Device, img, format.Format)
		if err != nil {
			vk.DestroySwapchain(d.adapter.Device, handle, nil)
			return false, err
		}
		images[i] = swapImage{image: img, view: view}
	}

	depthFormat := s.depthFormatOverride
	hasDepth := depthFormat != vk.FormatUndefined
	if !hasDepth {
		depthFormat, hasDepth = selectDepthFormat(func(f vk.Format) bool {
			var props vk.FormatProperties
			vk.GetPhysicalDeviceFormatProperties(gpu, f, &props)
			props.Deref()
			return vk.FormatFeatureFlags(props.OptimalTilingFeatures)&vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0
		}, depthFormatCandidates)
	}
	var depthTex *Texture
	var depthView *TextureView
	if hasDepth {
		var err error
		depthTex, depthView, err = newDepthAttachment(d, depthFormat, extent.Width, extent.Height)
		if err != nil {
			return false, err
		}
	}

	var renderPasses [3]vk.RenderPass
	for v := renderPassClear; v <= renderPassNoClearInit; v++ {
		pass, err := createRenderPass(d.adapter.Device, format.Format, depthFormat, v)
		if err != nil {
			return false, err
		}
		renderPasses[v] = pass
	}

	for i := range images {
		attachments := []vk.ImageView{images[i].view}
		if hasDepth {
			attachments = append(attachments, depthView.handle)
		}
		for v := renderPassClear; v <= renderPassNoClearInit; v++ {
			var fb vk.Framebuffer
			ret := vk.CreateFramebuffer(d.adapter.Device, &vk.FramebufferCreateInfo{
				SType:           vk.StructureTypeFramebufferCreateInfo,
				RenderPass:      renderPasses[v],
				AttachmentCount: uint32(len(attachments)),
				PAttachments:    attachments,
				Width:           extent.Width,
				Height:          extent.Height,
				Layers:          1,
			}, nil, &fb)
			if isError(ret) {
				return false, vkErr(ret)
			}
			images[i].framebuffers[v] = fb
		}
	}

	if s.frameLag == 0 {
		s.frameLag = 2
	}
	if s.imageAvailable == nil {
		s.imageAvailable = make([]vk.Semaphore, s.frameLag)
		s.renderFinished = make([]vk.Semaphore, s.frameLag)
		s.frameFences = make([]*Fence, s.frameLag)
		for i := 0; i < s.frameLag; i++ {
			var err error
			if s.imageAvailable[i], err = createSemaphore(d.adapter.Device); err != nil {
				return false, err
			}
			if s.renderFinished[i], err = createSemaphore(d.adapter.Device); err != nil {
				return false, err
			}
			if s.frameFences[i], err = CreateFence(d, true); err != nil {
				return false, err
			}
		}
	}

	s.handle = handle
	s.format = format
	s.depthFormat = depthFormat
	s.extent = extent
	s.presentMode = presentMode
	s.presentFamily = presentFamily
	s.presentQueue = d.queues.queueAt(presentFamily)
	s.images = images
	s.depthTex = depthTex
	s.depthView = depthView
	s.renderPasses = renderPasses
	return true, nil
}

// RenderPass returns one of the three compatibility render passes this
// swapchain's framebuffers were built against.
func (s *Swapchain) RenderPass(variant int) vk.RenderPass { return s.renderPasses[variant] }

func (s *Swapchain) Extent() vk.Extent2D { return s.extent }
func (s *Swapchain) Format() vk.Format   { return s.format.Format }

// CurrentFramebuffer returns the framebuffer for the currently pre-acquired
// image under the given render-pass variant. Valid only when CurrentImage
// reports ok.
func (s *Swapchain) CurrentFramebuffer(variant int) vk.Framebuffer {
	if !s.acquired {
		return vk.NullFramebuffer
	}
	return s.images[s.curImage].framebuffers[variant]
}

// CurrentImage returns the pre-acquired image index and the semaphore the
// caller's rendering submission must wait on and signal. ok is false while
// the swapchain is minimized and after an acquire that recreated the
// swapchain (§4.4's acquire-returns-false cases).
func (s *Swapchain) CurrentImage() (index uint32, waitSem vk.Semaphore, signalSem vk.Semaphore, ok bool) {
	if !s.acquired {
		return 0, vk.NullSemaphore, vk.NullSemaphore, false
	}
	return s.curImage, s.curWaitSem, s.curSignalSem, true
}

// acquireLocked waits on the current frame's fence, acquires the next
// presentable image, and records it as the swapchain's pre-acquired image.
// OUT_OF_DATE/SUBOPTIMAL trigger an internal recreate and report false, nil
// with no image acquired; any other non-success is SwapchainAcquireFailed
// (SurfaceLost is reported as such). Caller must hold lk.
func (s *Swapchain) acquireLocked() (bool, error) {
	if s.handle == vk.NullSwapchain {
		return false, nil
	}

	fence := s.frameFences[s.currentFrame]
	if err := fence.Wait(vk.MaxUint64); err != nil {
		return false, err
	}
	if err := fence.Reset(); err != nil {
		return false, err
	}

	waitSem := s.imageAvailable[s.currentFrame]
	var imageIndex uint32
	ret := vk.AcquireNextImage(s.device.adapter.Device, s.handle, vk.MaxUint64, waitSem, vk.NullFence, &imageIndex)
	switch ret {
	case vk.Success:
		s.curImage = imageIndex
		s.curWaitSem = waitSem
		s.curSignalSem = s.renderFinished[s.currentFrame]
		return true, nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		if _, err := s.resizeLocked(s.width, s.height); err != nil {
			return false, err
		}
		return false, nil
	case vk.ErrorSurfaceLost:
		return false, newErr(KindSurfaceLost)
	default:
		return false, newErr(KindSwapchainAcquireFailed)
	}
}

// SwapBuffers implements spec §6's swapchain.swapBuffers(): present the
// pre-acquired image, then immediately acquire the next one so the
// swapchain is always ready for the following frame. Submission happens
// under the device's graphicsQueueLock when the present queue shares the
// main queue family, matching §5's shared-lock rule; otherwise under this
// swapchain's own lock.
func (s *Swapchain) SwapBuffers() (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()

	if !s.acquired {
		// Minimized or never successfully acquired; try to pick back up.
		ok, err := s.acquireLocked()
		if err != nil {
			return false, err
		}
		s.acquired = ok
		if !ok {
			return false, nil
		}
	}

	info := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.curSignalSem},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.handle},
		PImageIndices:      []uint32{s.curImage},
	}
	present := func(vk.Queue) error {
		ret := vk.QueuePresent(s.presentQueue, &info)
		switch ret {
		case vk.Success:
			return nil
		case vk.ErrorOutOfDate, vk.Suboptimal:
			return errSwapchainNeedsRecreate
		case vk.ErrorSurfaceLost:
			return newErr(KindSurfaceLost)
		default:
			return newErr(KindSwapchainAcquireFailed)
		}
	}

	var presentErr error
	if s.presentFamily == s.device.mainFamily {
		presentErr = s.device.submitLocked(present)
	} else {
		presentErr = present(s.presentQueue)
	}

	s.currentFrame = (s.currentFrame + 1) % s.frameLag
	s.acquired = false

	if presentErr != nil && !errors.Is(presentErr, errSwapchainNeedsRecreate) {
		return false, presentErr
	}
	if errors.Is(presentErr, errSwapchainNeedsRecreate) {
		ok, err := s.resizeLocked(s.width, s.height)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	ok, err := s.acquireLocked()
	if err != nil {
		return false, err
	}
	s.acquired = ok
	return ok, nil
}

// Resize implements spec §6's swapchain.resize(w,h) / §4.4's Recreation
// triggered by an application resize. It reports false, nil rather than an
// error when the surface is minimized, or when the acquire that follows the
// rebuild hits OUT_OF_DATE/SUBOPTIMAL and recreates the swapchain again.
func (s *Swapchain) Resize(width, height uint32) (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()

	ok, err := s.resizeLocked(width, height)
	if err != nil || !ok {
		s.acquired = false
		return ok, err
	}
	ok, err = s.acquireLocked()
	s.acquired = ok
	return ok, err
}

// resizeLocked tears down the image-dependent state and rebuilds against
// width/height, per §4.4's Recreation steps. Caller must hold lk.
func (s *Swapchain) resizeLocked(width, height uint32) (bool, error) {
	s.device.waitIdle()

	old := s.handle
	s.teardownImages()
	s.width, s.height = width, height

	ok, err := s.rebuild(old)
	if err != nil {
		return false, err
	}
	if !ok {
		// Minimized: the old swapchain can't be handed to a future
		// OldSwapchain once the surface capabilities have moved on, so
		// drop it now rather than leaking it until the next successful
		// resize.
		if old != vk.NullSwapchain {
			vk.DestroySwapchain(s.device.adapter.Device, old, nil)
		}
		s.handle = vk.NullSwapchain
		return false, nil
	}
	return true, nil
}

func (s *Swapchain) teardownImages() {
	d := s.device.adapter.Device
	for _, img := range s.images {
		for _, fb := range img.framebuffers {
			if fb != vk.NullFramebuffer {
				vk.DestroyFramebuffer(d, fb, nil)
			}
		}
		vk.DestroyImageView(d, img.view, nil)
	}
	s.images = nil
	for _, pass := range s.renderPasses {
		if pass != vk.NullRenderPass {
			vk.DestroyRenderPass(d, pass, nil)
		}
	}
	s.renderPasses = [3]vk.RenderPass{}
	if s.depthView != nil {
		s.depthView.Release()
		s.depthView = nil
	}
	if s.depthTex != nil {
		s.depthTex.Release()
		s.depthTex = nil
	}
}

func (s *Swapchain) destroyNow() {
	d := s.device.adapter.Device
	s.teardownImages()
	for i := range s.imageAvailable {
		vk.DestroySemaphore(d, s.imageAvailable[i], nil)
		vk.DestroySemaphore(d, s.renderFinished[i], nil)
		s.frameFences[i].Release()
	}
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(d, s.handle, nil)
	}
}
