//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the testbed with engine.toml.
func (Run) Engine() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run engine...")
	if _, err := executeCmd("./bin/tessera", withArgs("-config", "engine.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the preload tool and warms the cache for a scene manifest, e.g. scenes/testbed.yaml.
func (Run) Preload(manifest string) error {
	mg.Deps(Build.Preload)
	if _, err := executeCmd("./bin/texpreload", withArgs("-config", "engine.toml", "-manifest", manifest), withStream()); err != nil {
		return err
	}
	return nil
}
