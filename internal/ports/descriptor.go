package ports

import (
	"context"

	"depman/internal/types"
)

// DescriptorConverterPort projects configurations onto a module descriptor.
// Both conversions are deterministic for identical inputs.
type DescriptorConverterPort interface {
	// ConvertForFile describes the full shape of the module.
	ConvertForFile(ctx context.Context, configurations []types.Configuration, module types.ModuleID, settings types.EngineSettings) types.ModuleDescriptor

	// ConvertForPublish describes only the configurations being published.
	ConvertForPublish(ctx context.Context, configurations []types.Configuration, module types.ModuleID, settings types.EngineSettings) types.ModuleDescriptor
}

// DescriptorWriterPort serializes descriptors. Failures are reported as
// *types.DescriptorWriteError.
type DescriptorWriterPort interface {
	WriteDescriptor(path string, descriptor types.ModuleDescriptor) error
	RenderDescriptor(descriptor types.ModuleDescriptor) ([]byte, error)
}

type DescriptorReaderPort interface {
	ReadDescriptor(path string) (types.ModuleDescriptor, error)
}
