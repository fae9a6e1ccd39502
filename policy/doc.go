// Package policy provides optional declarative rules that decide which
// syscalls a kernel services, for example to sandbox tasks that must not
// map memory.
package policy
