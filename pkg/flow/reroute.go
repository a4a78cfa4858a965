package flow

import (
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
)

// Reroute points are user-placed waypoints on a connection, ordered from
// source to target. They are stored on the output-side endpoint only and
// disappear with the connection.
//
// Index i always addresses the i-th point in source-to-target order. An
// insert at i places the new point before the current point i, so the
// order is the same whether the caller draws one curve per segment or one
// curve for the whole path.

// AddReroutePoint inserts p before point index. index is clamped to
// [0, len]; a negative index appends. Returns CONNECTION_NOT_FOUND if the
// edge does not exist. Emits addReroute with the source node id.
func (s *Store) AddReroutePoint(c Connection, index int, p Point) (int, error) {
	ep, err := s.outputEndpoint(c)
	if err != nil {
		return 0, err
	}
	if index < 0 || index > len(ep.Points) {
		index = len(ep.Points)
	}
	ep.Points = append(ep.Points, Point{})
	copy(ep.Points[index+1:], ep.Points[index:])
	ep.Points[index] = p

	s.logger.Debug("reroute point added", "edge", c.String(), "index", index)
	s.emit(events.AddReroute, c.SourceNode)
	return index, nil
}

// RemoveReroutePoint deletes point index, keeping the order of the rest.
// Emits removeReroute with the source node id.
func (s *Store) RemoveReroutePoint(c Connection, index int) error {
	ep, err := s.outputEndpoint(c)
	if err != nil {
		return err
	}
	if err := checkPointIndex(ep, index); err != nil {
		return err
	}
	ep.Points = append(ep.Points[:index], ep.Points[index+1:]...)
	if len(ep.Points) == 0 {
		ep.Points = nil
	}

	s.logger.Debug("reroute point removed", "edge", c.String(), "index", index)
	s.emit(events.RemoveReroute, c.SourceNode)
	return nil
}

// MoveReroutePoint sets the position of point index.
// Emits rerouteMoved with the source node id.
func (s *Store) MoveReroutePoint(c Connection, index int, p Point) error {
	ep, err := s.outputEndpoint(c)
	if err != nil {
		return err
	}
	if err := checkPointIndex(ep, index); err != nil {
		return err
	}
	ep.Points[index] = p
	s.emit(events.RerouteMoved, c.SourceNode)
	return nil
}

// ReroutePoints returns a copy of the edge's points in source-to-target
// order.
func (s *Store) ReroutePoints(c Connection) ([]Point, error) {
	ep, err := s.outputEndpoint(c)
	if err != nil {
		return nil, err
	}
	return append([]Point(nil), ep.Points...), nil
}

// ClearReroutePoints drops every point on the edge. Emits removeReroute
// when there was at least one point.
func (s *Store) ClearReroutePoints(c Connection) error {
	ep, err := s.outputEndpoint(c)
	if err != nil {
		return err
	}
	if len(ep.Points) == 0 {
		return nil
	}
	ep.Points = nil
	s.emit(events.RemoveReroute, c.SourceNode)
	return nil
}

// outputEndpoint returns the live output-side record of c.
func (s *Store) outputEndpoint(c Connection) (*Endpoint, error) {
	_, out, _, _, err := s.resolve(c)
	if err != nil {
		return nil, err
	}
	i := indexEndpoint(out.Connections, c.TargetNode, c.InputPort)
	if i < 0 {
		return nil, errors.New(errors.ErrCodeConnectionNotFound, "connection %s not found", c)
	}
	return &out.Connections[i], nil
}

func checkPointIndex(ep *Endpoint, index int) error {
	if index < 0 || index >= len(ep.Points) {
		return errors.New(errors.ErrCodeInvalidInput, "reroute point %d out of range [0,%d)", index, len(ep.Points))
	}
	return nil
}
