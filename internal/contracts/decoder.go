package contracts

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrUnknownEvent is returned for logs whose topic0 is not part of the decoded ABI.
var ErrUnknownEvent = errors.New("unknown event")

// Decoder turns raw logs of the factory and pool contracts into typed events.
type Decoder struct {
	pool abi.ABI

	poolCreated abi.Event
	poolEvents  map[common.Hash]abi.Event
}

// NewDecoder builds a decoder for the factory and pool ABIs.
func NewDecoder() (*Decoder, error) {
	factory, err := FactoryABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}

	pool, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}

	poolEvents := make(map[common.Hash]abi.Event, len(pool.Events))
	for _, event := range pool.Events {
		poolEvents[event.ID] = event
	}

	return &Decoder{
		pool:        pool,
		poolCreated: factory.Events[EventPoolCreated],
		poolEvents:  poolEvents,
	}, nil
}

// PoolCreatedTopic returns the topic0 of the factory PoolCreated event.
func (d *Decoder) PoolCreatedTopic() common.Hash {
	return d.poolCreated.ID
}

// PoolEventTopics returns the topic0 set of every pool event, in a stable order.
func (d *Decoder) PoolEventTopics() []common.Hash {
	names := []string{
		EventParticipantJoined,
		EventPaymentMade,
		EventDrawingCompleted,
		EventPoolActivated,
		EventPoolFinalized,
	}

	topics := make([]common.Hash, 0, len(names))
	for _, name := range names {
		topics = append(topics, d.pool.Events[name].ID)
	}

	return topics
}

// DecodePoolCreated decodes a factory PoolCreated log.
func (d *Decoder) DecodePoolCreated(log types.Log) (*PoolCreated, error) {
	if len(log.Topics) == 0 || log.Topics[0] != d.poolCreated.ID {
		return nil, fmt.Errorf("%w: not a %s log", ErrUnknownEvent, EventPoolCreated)
	}

	args, err := unpackLog(d.poolCreated, log)
	if err != nil {
		return nil, err
	}

	event := &PoolCreated{LogMeta: metaOf(log)}
	err = errors.Join(
		args.get("pool", &event.Pool),
		args.get("creator", &event.Creator),
		args.get("maxParticipants", &event.MaxParticipants),
		args.get("monthlyContribution", &event.MonthlyContribution),
	)
	if err != nil {
		return nil, err
	}

	return event, nil
}

// DecodePoolEvent decodes a log emitted by a pool contract into its PoolEvent variant.
func (d *Decoder) DecodePoolEvent(log types.Log) (PoolEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("%w: log without topics", ErrUnknownEvent)
	}

	abiEvent, ok := d.poolEvents[log.Topics[0]]
	if !ok {
		return nil, fmt.Errorf("%w: topic %s", ErrUnknownEvent, log.Topics[0].Hex())
	}

	args, err := unpackLog(abiEvent, log)
	if err != nil {
		return nil, err
	}

	meta := metaOf(log)

	var event PoolEvent
	switch abiEvent.Name {
	case EventParticipantJoined:
		e := &ParticipantJoined{LogMeta: meta}
		event, err = e, errors.Join(
			args.get("participant", &e.Participant),
			args.get("collateral", &e.Collateral),
			args.get("firstContribution", &e.FirstContribution),
		)
	case EventPaymentMade:
		e := &PaymentMade{LogMeta: meta}
		event, err = e, errors.Join(
			args.get("participant", &e.Participant),
			args.get("month", &e.Month),
			args.get("amount", &e.Amount),
			args.get("status", &e.Status),
		)
	case EventDrawingCompleted:
		e := &DrawingCompleted{LogMeta: meta}
		event, err = e, errors.Join(
			args.get("month", &e.Month),
			args.get("winner", &e.Winner),
			args.get("potAmount", &e.PotAmount),
		)
	case EventPoolActivated:
		e := &PoolActivated{LogMeta: meta}
		event, err = e, args.get("timestamp", &e.Timestamp)
	case EventPoolFinalized:
		e := &PoolFinalized{LogMeta: meta}
		event, err = e, args.get("totalYield", &e.TotalYield)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownEvent, abiEvent.Name)
	}
	if err != nil {
		return nil, err
	}

	return event, nil
}

// eventArgs holds the decoded arguments of one log keyed by ABI argument name.
type eventArgs struct {
	event  string
	values map[string]any
}

// get copies the argument called name into dst, which must point to the argument's Go type.
func (a eventArgs) get(name string, dst any) error {
	value, ok := a.values[name]
	if !ok {
		return fmt.Errorf("%s: missing argument %q", a.event, name)
	}

	switch dst := dst.(type) {
	case *common.Address:
		v, ok := value.(common.Address)
		if !ok {
			return a.typeError(name, value)
		}
		*dst = v
	case **big.Int:
		v, ok := value.(*big.Int)
		if !ok {
			return a.typeError(name, value)
		}
		*dst = v
	case *uint8:
		v, ok := value.(uint8)
		if !ok {
			return a.typeError(name, value)
		}
		*dst = v
	default:
		return fmt.Errorf("%s: unsupported destination %T for %q", a.event, dst, name)
	}

	return nil
}

func (a eventArgs) typeError(name string, value any) error {
	return fmt.Errorf("%s: argument %q has unexpected type %T", a.event, name, value)
}

// unpackLog decodes the data section and the indexed topics of log into a name-keyed map.
func unpackLog(event abi.Event, log types.Log) (eventArgs, error) {
	args := eventArgs{event: event.Name, values: make(map[string]any, len(event.Inputs))}

	if err := event.Inputs.UnpackIntoMap(args.values, log.Data); err != nil {
		return args, fmt.Errorf("failed to unpack %s data: %w", event.Name, err)
	}

	indexed := indexedArguments(event.Inputs)
	if len(log.Topics)-1 != len(indexed) {
		return args, fmt.Errorf("%s: expected %d indexed topics, got %d", event.Name, len(indexed), len(log.Topics)-1)
	}

	if err := abi.ParseTopicsIntoMap(args.values, indexed, log.Topics[1:]); err != nil {
		return args, fmt.Errorf("failed to parse %s topics: %w", event.Name, err)
	}

	return args, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	var indexed abi.Arguments
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func metaOf(log types.Log) LogMeta {
	return LogMeta{
		Address:     log.Address,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		TxIndex:     log.TxIndex,
		LogIndex:    log.Index,
	}
}
