// Package stride is the scheduling and virtual-memory core of a single-core
// teaching kernel, runnable on a host.
//
// Tasks are Go functions that talk to the kernel only through a *User
// handle: syscalls, simulated timer ticks and user memory access. The
// kernel picks tasks with a stride scheduler and services mmap, munmap,
// sbrk, get_time and task_info against per-task address spaces built on
// in-memory frames and page tables.
//
//	srv, _ := stride.New()
//	rt := srv.Runtime()
//	_, _ = rt.Spawn(ctx, stride.Spec{Name: "hello", Priority: 8, Program: func(u *stride.User) {
//		u.Yield()
//		u.Exit(0)
//	}})
//	_ = rt.Run(ctx)
//
// Exactly one side runs at any time: either the kernel loop or one task.
package stride
