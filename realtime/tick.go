package realtime

// processTick processes one fixed step
func (rt *RealtimeRuntime) processTick(fixedDelta float64) {
	// Phase 1: Collect events atomically
	events := rt.collectEvents()

	// Phase 2: Sort for deterministic order
	rt.sortEvents(events)

	// Phase 3: Deliver events with the step's fixed delta
	rt.processEvents(fixedDelta, events)

	rt.tickNum.Add(1)
}

// collectEvents atomically retrieves and clears the event batch
func (rt *RealtimeRuntime) collectEvents() []EventWithMeta {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	events := rt.eventBatch
	rt.eventBatch = make([]EventWithMeta, 0, cap(rt.eventBatch))

	return events
}

// processEvents delivers all events for this step
func (rt *RealtimeRuntime) processEvents(fixedDelta float64, events []EventWithMeta) {
	if rt.handler == nil {
		return
	}
	for _, eventMeta := range events {
		rt.handler.HandleEvent(fixedDelta, eventMeta.Event)
	}
}
