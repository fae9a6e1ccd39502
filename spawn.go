package stride

import (
	"context"
	"fmt"

	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/progress"
	"github.com/viant/stride/runtime/task"
	"github.com/viant/stride/service/mm"
)

// Spec describes a task to load.
type Spec struct {
	Name string
	// Priority must be at least 1; 2 or more keeps scheduling fair.
	Priority int
	// Image is copied to the start of the image area, which spans at least
	// one page.
	Image   []byte
	Program Program
}

// Spawn loads a task and makes it ready.
func (r *Runtime) Spawn(ctx context.Context, spec Spec) (*task.ControlBlock, error) {
	if spec.Program == nil {
		return nil, fmt.Errorf("spawn %q: program is nil", spec.Name)
	}
	if err := task.ValidatePriority(spec.Priority); err != nil {
		return nil, fmt.Errorf("spawn %q: %w", spec.Name, err)
	}
	space := mm.New(r.machine)
	layout, err := r.load(space, spec.Image)
	if err != nil {
		space.Release()
		return nil, fmt.Errorf("spawn %q: %w", spec.Name, err)
	}

	r.nextID++
	tcb, err := task.New(r.nextID, spec.Name, spec.Priority, space)
	if err != nil {
		space.Release()
		return nil, err
	}
	tcb.HeapBottom = layout.HeapBottom
	tcb.ProgramBreak = layout.HeapBottom
	if err = r.tasks.Save(ctx, tcb); err != nil {
		space.Release()
		return nil, err
	}
	r.accounting.Register(ctx, tcb.ID)
	r.threads[tcb.ID] = newThread(spec.Program, layout)
	r.transition(ctx, tcb, task.Ready, "spawn")
	r.scheduler.Enqueue(tcb)
	r.progress.Update(progress.Delta{Spawned: 1})
	r.logger.Info("task spawned", "task", tcb.ID, "name", tcb.Name, "priority", tcb.Priority, "frames", space.FrameCount())
	return tcb, nil
}

// load maps the image, leaves a guard page and maps the stack. The heap
// starts empty at the stack top.
func (r *Runtime) load(space *mm.AddressSpace, image []byte) (Layout, error) {
	base := VirtAddr(r.config.Task.BaseAddress)
	imagePages := max(1, int(amm.VirtAddr(len(image)).Ceil()))
	layout := Layout{ImageBase: base, ImageEnd: base + VirtAddr(imagePages*amm.PageSize)}
	layout.StackBottom = layout.ImageEnd + amm.PageSize
	layout.StackTop = layout.StackBottom + VirtAddr(r.config.Task.StackPages*amm.PageSize)
	layout.HeapBottom = layout.StackTop

	areas := []mm.Area{
		{
			Range: amm.Range{Start: layout.ImageBase.Floor(), End: layout.ImageEnd.Floor()},
			Perm:  amm.PermRead | amm.PermWrite | amm.PermExecute | amm.PermUser,
			Kind:  mm.KindImage,
		},
		{
			Range: amm.Range{Start: layout.StackBottom.Floor(), End: layout.StackTop.Floor()},
			Perm:  amm.PermRead | amm.PermWrite | amm.PermUser,
			Kind:  mm.KindStack,
		},
	}
	for _, area := range areas {
		if err := space.MapArea(area); err != nil {
			return layout, err
		}
	}
	if err := space.WriteUser(base, image); err != nil {
		return layout, err
	}
	return layout, nil
}
