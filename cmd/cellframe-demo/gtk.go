//go:build gtk

package main

import _ "github.com/lixenwraith/cellframe/window/gtk"
