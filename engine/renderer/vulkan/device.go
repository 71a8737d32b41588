package vulkan

import (
	"errors"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tessera/engine/core"
)

type VulkanDevice struct {
	PhysicalDevice     vk.PhysicalDevice
	LogicalDevice      vk.Device
	Name               string
	GraphicsQueueIndex uint32
	GraphicsQueue      vk.Queue

	GraphicsCommandPool vk.CommandPool

	Properties vk.PhysicalDeviceProperties
	Features   vk.PhysicalDeviceFeatures
	Memory     vk.PhysicalDeviceMemoryProperties

	// Set when the device supports and has samplerAnisotropy enabled.
	Anisotropy bool
}

type physicalDeviceCandidate struct {
	device        vk.PhysicalDevice
	properties    vk.PhysicalDeviceProperties
	features      vk.PhysicalDeviceFeatures
	graphicsQueue uint32
	score         int
}

func DeviceCreate(context *Context) (*VulkanDevice, error) {
	candidate, err := selectPhysicalDevice(context)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	device := &VulkanDevice{
		PhysicalDevice:     candidate.device,
		Name:               cString(candidate.properties.DeviceName[:]),
		GraphicsQueueIndex: candidate.graphicsQueue,
		Properties:         candidate.properties,
		Features:           candidate.features,
		Anisotropy:         candidate.features.SamplerAnisotropy == vk.True,
	}
	vk.GetPhysicalDeviceMemoryProperties(device.PhysicalDevice, &device.Memory)
	device.Memory.Deref()

	core.LogInfo("Selected device: '%s'.", device.Name)
	core.LogInfo(
		"Vulkan API version: %d.%d.%d",
		vk.Version(device.Properties.ApiVersion).Major(),
		vk.Version(device.Properties.ApiVersion).Minor(),
		vk.Version(device.Properties.ApiVersion).Patch(),
	)

	core.LogInfo("Creating logical device...")
	queueCreateInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: device.GraphicsQueueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	deviceFeatures := vk.PhysicalDeviceFeatures{}
	if device.Anisotropy {
		deviceFeatures.SamplerAnisotropy = vk.True
	}

	extensionNames := []string{}
	if hasDeviceExtension(device.PhysicalDevice, "VK_KHR_portability_subset") {
		core.LogInfo("Adding required extension 'VK_KHR_portability_subset'.")
		extensionNames = append(extensionNames, "VK_KHR_portability_subset")
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensionNames),
	}

	var logical vk.Device
	if err := check(vk.CreateDevice(device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &logical), "vkCreateDevice"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	device.LogicalDevice = logical
	core.LogInfo("Logical device created.")

	var queue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, device.GraphicsQueueIndex, 0, &queue)
	device.GraphicsQueue = queue

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: device.GraphicsQueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit | vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if err := check(vk.CreateCommandPool(device.LogicalDevice, &poolCreateInfo, context.Allocator, &pool), "vkCreateCommandPool"); err != nil {
		core.LogError(err.Error())
		vk.DestroyDevice(device.LogicalDevice, context.Allocator)
		return nil, err
	}
	device.GraphicsCommandPool = pool
	core.LogInfo("Graphics command pool created.")

	return device, nil
}

func DeviceDestroy(context *Context, device *VulkanDevice) {
	core.LogInfo("Destroying command pools...")
	vk.DestroyCommandPool(device.LogicalDevice, device.GraphicsCommandPool, context.Allocator)

	core.LogInfo("Destroying logical device...")
	if device.LogicalDevice != nil {
		vk.DestroyDevice(device.LogicalDevice, context.Allocator)
		device.LogicalDevice = nil
	}
	// Physical devices are not destroyed.
	device.PhysicalDevice = nil
	device.GraphicsQueue = nil
}

// selectPhysicalDevice picks the device with a graphics queue that scores
// highest, discrete GPUs first.
func selectPhysicalDevice(context *Context) (*physicalDeviceCandidate, error) {
	var count uint32
	if err := check(vk.EnumeratePhysicalDevices(context.Instance, &count, nil), "vkEnumeratePhysicalDevices"); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("no devices which support Vulkan were found")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := check(vk.EnumeratePhysicalDevices(context.Instance, &count, devices), "vkEnumeratePhysicalDevices"); err != nil {
		return nil, err
	}

	var best *physicalDeviceCandidate
	for _, pd := range devices {
		c := &physicalDeviceCandidate{device: pd}
		vk.GetPhysicalDeviceProperties(pd, &c.properties)
		c.properties.Deref()
		vk.GetPhysicalDeviceFeatures(pd, &c.features)
		c.features.Deref()

		queue, ok := graphicsQueueFamily(pd)
		if !ok {
			core.LogInfo("Device '%s' has no graphics queue, skipping.", cString(c.properties.DeviceName[:]))
			continue
		}
		c.graphicsQueue = queue

		switch c.properties.DeviceType {
		case vk.PhysicalDeviceTypeDiscreteGpu:
			c.score = 3
		case vk.PhysicalDeviceTypeIntegratedGpu:
			c.score = 2
		case vk.PhysicalDeviceTypeVirtualGpu:
			c.score = 1
		}
		if best == nil || c.score > best.score {
			best = c
		}
	}
	if best == nil {
		return nil, errors.New("no physical devices were found which meet the requirements")
	}
	return best, nil
}

func graphicsQueueFamily(pd vk.PhysicalDevice) (uint32, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, families)

	for i := range families {
		families[i].Deref()
		if vk.QueueFlagBits(families[i].QueueFlags)&vk.QueueGraphicsBit != 0 {
			return uint32(i), true
		}
	}
	return 0, false
}

func hasDeviceExtension(pd vk.PhysicalDevice, name string) bool {
	var count uint32
	if vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil) != vk.Success || count == 0 {
		return false
	}
	available := make([]vk.ExtensionProperties, count)
	if vk.EnumerateDeviceExtensionProperties(pd, "", &count, available) != vk.Success {
		return false
	}
	for i := range available {
		available[i].Deref()
		if cString(available[i].ExtensionName[:]) == name {
			return true
		}
	}
	return false
}
