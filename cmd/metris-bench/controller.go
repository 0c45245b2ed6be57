package main

import "github.com/plus3/metris/app"

// appController routes bot moves through App.Dispatch so they take the same
// path as player input.
type appController struct {
	app *app.App
}

func (c appController) Rotate() bool    { return c.app.Dispatch(app.ActionRotate) }
func (c appController) MoveLeft() bool  { return c.app.Dispatch(app.ActionMoveLeft) }
func (c appController) MoveRight() bool { return c.app.Dispatch(app.ActionMoveRight) }
func (c appController) HardDrop() bool  { return c.app.Dispatch(app.ActionHardDrop) }
