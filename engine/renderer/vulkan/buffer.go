package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tessera/engine/core"
)

type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   vk.DeviceSize
	Usage  vk.BufferUsageFlags
}

func NewVulkanBuffer(context *Context, size vk.DeviceSize, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	buffer := &VulkanBuffer{
		Size:  size,
		Usage: usage,
	}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	var handle vk.Buffer
	if err := check(vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &handle), "vkCreateBuffer"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer.Handle, &requirements)
	requirements.Deref()

	memoryIndex := context.FindMemoryIndex(requirements.MemoryTypeBits, memoryFlags)
	if memoryIndex == -1 {
		buffer.Destroy(context)
		err := fmt.Errorf("unable to create vulkan buffer because the required memory type index was not found")
		core.LogError(err.Error())
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}
	var memory vk.DeviceMemory
	if err := check(vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory), "vkAllocateMemory"); err != nil {
		buffer.Destroy(context)
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Memory = memory

	if err := check(vk.BindBufferMemory(context.Device.LogicalDevice, buffer.Handle, buffer.Memory, 0), "vkBindBufferMemory"); err != nil {
		buffer.Destroy(context)
		core.LogError(err.Error())
		return nil, err
	}
	return buffer, nil
}

// LoadData copies data into host visible buffer memory at offset.
func (b *VulkanBuffer) LoadData(context *Context, offset vk.DeviceSize, data []byte) error {
	if vk.DeviceSize(len(data))+offset > b.Size {
		return fmt.Errorf("buffer of %d bytes cannot hold %d bytes at offset %d", b.Size, len(data), offset)
	}
	var mapped unsafe.Pointer
	if err := check(vk.MapMemory(context.Device.LogicalDevice, b.Memory, offset, vk.DeviceSize(len(data)), 0, &mapped), "vkMapMemory"); err != nil {
		core.LogError(err.Error())
		return err
	}
	vk.Memcopy(mapped, data)
	vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
	return nil
}

func (b *VulkanBuffer) Destroy(context *Context) {
	if b.Memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = nil
	}
	if b.Handle != nil {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = nil
	}
	b.Size = 0
}
