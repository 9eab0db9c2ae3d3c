//go:build ndebug

package assert

const Enabled = false
