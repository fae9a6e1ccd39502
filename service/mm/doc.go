// Package mm owns a task's address space: the set of non-overlapping areas,
// the page table that backs them and the frames they occupy. It services
// mmap, munmap and program-break changes with validate-then-commit
// semantics, and copies bytes to and from user memory page by page.
//
// Frames, page tables and physical memory are collaborators reached through
// the interfaces in collaborator.go; package memory provides in-memory
// implementations.
package mm
