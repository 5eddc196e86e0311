package fastview

import (
	"context"
	"errors"
	"html/template"

	channerics "github.com/niceyeti/channerics/channels"
)

// ViewBuilderFunc builds a view from a 'done' channel and its view-model channel.
type ViewBuilderFunc[ViewModel any] func(<-chan struct{}, <-chan ViewModel) ViewComponent

// View adapts the constructor of a concrete view type to a ViewBuilderFunc.
func View[ViewModel any, V ViewComponent](
	newView func(<-chan struct{}, <-chan ViewModel) V,
) ViewBuilderFunc[ViewModel] {
	return func(done <-chan struct{}, models <-chan ViewModel) ViewComponent {
		return newView(done, models)
	}
}

// ViewBuilder wires a set of views to one stream of data models. Each data model is
// converted to the view-model once, and every view receives every view-model.
type ViewBuilder[DataModel any, ViewModel any] struct {
	source  <-chan DataModel
	convert func(DataModel) ViewModel
	views   []ViewBuilderFunc[ViewModel]
	done    <-chan struct{}
}

func NewViewBuilder[DataModel any, ViewModel any]() *ViewBuilder[DataModel, ViewModel] {
	return &ViewBuilder[DataModel, ViewModel]{}
}

// WithModel sets the data model stream and its conversion to the view-model.
func (vb *ViewBuilder[DataModel, ViewModel]) WithModel(
	source <-chan DataModel,
	convert func(DataModel) ViewModel,
) *ViewBuilder[DataModel, ViewModel] {
	vb.source = source
	vb.convert = convert
	return vb
}

// WithView adds views, built in the order they are added.
func (vb *ViewBuilder[DataModel, ViewModel]) WithView(
	views ...ViewBuilderFunc[ViewModel],
) *ViewBuilder[DataModel, ViewModel] {
	vb.views = append(vb.views, views...)
	return vb
}

// WithContext closes all downstream channels when ctx is cancelled.
func (vb *ViewBuilder[DataModel, ViewModel]) WithContext(
	ctx context.Context,
) *ViewBuilder[DataModel, ViewModel] {
	vb.done = ctx.Done()
	return vb
}

// ErrNoViews is returned when Build() is called before the caller has added any views.
var ErrNoViews error = errors.New("no views to build: WithView must be called")

// ErrNoModel is returned when Build() is called before WithModel() has been called.
var ErrNoModel error = errors.New("no model specified: WithModel must be called")

// Build connects the model stream to the views and returns them in the order added.
func (vb *ViewBuilder[DataModel, ViewModel]) Build() (views Views, err error) {
	if len(vb.views) == 0 {
		return nil, ErrNoViews
	}
	if vb.convert == nil || vb.source == nil {
		return nil, ErrNoModel
	}

	models := channerics.Broadcast(
		vb.done,
		channerics.Convert(vb.done, vb.source, vb.convert),
		len(vb.views))
	for i, build := range vb.views {
		views = append(views, build(vb.done, models[i]))
	}
	return
}

// Views are views built together over one view-model.
type Views []ViewComponent

// Updates merges the ele-updates of all the views.
func (views Views) Updates(done <-chan struct{}) <-chan []EleUpdate {
	inputs := make([]<-chan []EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return channerics.Merge(done, inputs...)
}

// Parse defines every view's template in t and returns the template names in view order.
func (views Views) Parse(t *template.Template) (names []string, err error) {
	for _, view := range views {
		var name string
		if name, err = view.Parse(t); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return
}
