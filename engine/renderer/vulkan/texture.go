package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

const textureFormat = vk.FormatR8g8b8a8Unorm

/** @brief Backend data stored in metadata.Texture.InternalData. */
type VulkanTextureData struct {
	Image   *VulkanImage
	Sampler vk.Sampler
}

// TextureCreate uploads RGBA8 pixels into a device local image and creates the
// view and sampler used to read it.
func (c *Context) TextureCreate(pixels []uint8, texture *metadata.Texture) error {
	if texture == nil {
		return fmt.Errorf("%w: texture is nil", core.ErrResourceCreationFailed)
	}
	size := int(texture.Width) * int(texture.Height) * 4
	if size == 0 || len(pixels) != size {
		err := fmt.Errorf("%w: texture '%s' expects %d bytes of pixel data, got %d", core.ErrResourceCreationFailed, texture.Name, size, len(pixels))
		core.LogError(err.Error())
		return err
	}

	var data *VulkanTextureData
	err := c.locks.SafeCall(ResourceManagement, func() error {
		var err error
		data, err = c.uploadTexture(pixels, texture)
		return err
	})
	if err != nil {
		core.LogError("failed to create texture '%s' (%s): %s", texture.Name, texture.ID, err)
		return fmt.Errorf("%w: '%s': %w", core.ErrResourceCreationFailed, texture.Name, err)
	}
	texture.InternalData = data
	core.LogDebug("Texture '%s' (%s) uploaded %dx%d.", texture.Name, texture.ID, texture.Width, texture.Height)
	return nil
}

func (c *Context) uploadTexture(pixels []uint8, texture *metadata.Texture) (*VulkanTextureData, error) {
	staging, err := NewVulkanBuffer(
		c,
		vk.DeviceSize(len(pixels)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(c)

	if err := staging.LoadData(c, 0, pixels); err != nil {
		return nil, err
	}

	image, err := ImageCreate(c, ImageConfig{
		Width:       texture.Width,
		Height:      texture.Height,
		Format:      textureFormat,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
		MemoryFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		CreateView:  true,
		ViewAspect:  vk.ImageAspectFlags(vk.ImageAspectColorBit),
	})
	if err != nil {
		return nil, err
	}

	pool := c.Device.GraphicsCommandPool
	queue := c.Device.GraphicsQueue
	commandBuffer, err := AllocateAndBeginSingleUse(c, pool)
	if err != nil {
		image.Destroy(c)
		return nil, err
	}
	if err := image.TransitionLayout(c, commandBuffer, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		commandBuffer.Free(c, pool)
		image.Destroy(c)
		return nil, err
	}
	image.CopyFromBuffer(staging, commandBuffer)
	if err := image.TransitionLayout(c, commandBuffer, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		commandBuffer.Free(c, pool)
		image.Destroy(c)
		return nil, err
	}
	if err := commandBuffer.EndSingleUse(c, pool, queue); err != nil {
		image.Destroy(c)
		return nil, err
	}

	sampler, err := c.createSampler()
	if err != nil {
		image.Destroy(c)
		return nil, err
	}
	return &VulkanTextureData{Image: image, Sampler: sampler}, nil
}

func (c *Context) createSampler() (vk.Sampler, error) {
	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
	}
	if c.Device.Anisotropy {
		limits := c.Device.Properties.Limits
		limits.Deref()
		samplerInfo.AnisotropyEnable = vk.True
		samplerInfo.MaxAnisotropy = limits.MaxSamplerAnisotropy
	}

	var sampler vk.Sampler
	if err := check(vk.CreateSampler(c.Device.LogicalDevice, &samplerInfo, c.Allocator, &sampler), "vkCreateSampler"); err != nil {
		return nil, err
	}
	return sampler, nil
}

// TextureDestroy waits for the device to go idle and frees the sampler, view,
// image and memory of texture.
func (c *Context) TextureDestroy(texture *metadata.Texture) error {
	data, ok := texture.InternalData.(*VulkanTextureData)
	if !ok || data == nil {
		err := fmt.Errorf("texture '%s' has no vulkan data", texture.Name)
		core.LogWarn(err.Error())
		return err
	}

	err := c.locks.SafeCall(ResourceManagement, func() error {
		if err := check(vk.DeviceWaitIdle(c.Device.LogicalDevice), "vkDeviceWaitIdle"); err != nil {
			return err
		}
		if data.Sampler != nil {
			vk.DestroySampler(c.Device.LogicalDevice, data.Sampler, c.Allocator)
			data.Sampler = nil
		}
		if data.Image != nil {
			data.Image.Destroy(c)
			data.Image = nil
		}
		return nil
	})
	if err != nil {
		core.LogError("failed to destroy texture '%s': %s", texture.Name, err)
		return err
	}
	texture.InternalData = nil
	texture.Generation = 0
	return nil
}
