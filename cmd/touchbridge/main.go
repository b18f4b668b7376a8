//go:build linux

// Command touchbridge connects an MPR121 on a Linux I2C bus to MQTT and Modbus, with an
// optional command console on a serial port.
//
// Usage:
//
//	touchbridge <config.yaml>
//
// Example config:
//
//	bus: /dev/i2c-1
//	address: 0x5a
//	profile: pad.yaml
//	mqtt:
//	  broker: tcp://localhost:1883
//	  prefix: home/pad
//	modbus:
//	  endpoint: plc:502
//	  address: 100
//	console:
//	  port: /dev/ttyUSB0
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/tarm/serial"

	"github.com/ajanata/touch/i2cdev"
	"github.com/ajanata/touch/mpr121"
	"github.com/ajanata/touch/mpr121/console"
	"github.com/ajanata/touch/mpr121/modbusmirror"
	"github.com/ajanata/touch/mpr121/touchmqtt"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: touchbridge <config.yaml>")
	}

	cfg, err := LoadConfig(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("touchbridge: %v", err)
	}
}

func run(ctx context.Context, cfg *Config) error {
	settings, err := cfg.loadSettings()
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	bus, err := i2cdev.Open(cfg.Bus)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev := mpr121.New(bus)
	err = dev.Configure(mpr121.Config{
		Address:    cfg.Address,
		Settings:   &settings,
		AutoConfig: cfg.AutoConfig,
		Logger:     driverLogger{},
	})
	if err != nil {
		return fmt.Errorf("configure (addr=%#02x): %w", cfg.Address, err)
	}
	log.Printf("mpr121 ready (bus=%s addr=%#02x)", cfg.Bus, cfg.Address)

	var pub eventPublisher
	if cfg.MQTT != nil {
		p, disconnect, err := connectMQTT(cfg.MQTT)
		if err != nil {
			return err
		}
		defer disconnect()
		pub = p
	}

	var mirror snapshotWriter
	if cfg.Modbus != nil {
		client, err := modbusmirror.Dial(modbusmirror.Config{
			Endpoint: cfg.Modbus.Endpoint,
			UnitID:   cfg.Modbus.UnitID,
			Timeout:  time.Duration(cfg.Modbus.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("modbus connect (endpoint=%s): %w", cfg.Modbus.Endpoint, err)
		}
		defer client.Close()
		mirror = modbusmirror.New(client, cfg.Modbus.Address)
	}

	var (
		con   *console.Console
		port  io.ReadWriteCloser
		lines <-chan string
	)
	if cfg.Console != nil {
		port, err = serial.OpenPort(&serial.Config{Name: cfg.Console.Port, Baud: cfg.Console.Baud})
		if err != nil {
			return fmt.Errorf("console (port=%s): %w", cfg.Console.Port, err)
		}
		defer port.Close()
		con = console.New(dev, port, settings)
		lines = readLines(ctx, port)
	}

	b := newBridge(dev, pub, mirror)
	touchTicker := time.NewTicker(cfg.pollInterval())
	defer touchTicker.Stop()
	dataTicker := time.NewTicker(cfg.dataInterval())
	defer dataTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("shutting down (addr=%#02x)", cfg.Address)
			return nil

		case now := <-touchTicker.C:
			b.pollTouch(now)

		case <-dataTicker.C:
			b.pollData()

		case line, ok := <-lines:
			if !ok {
				log.Printf("console closed (port=%s)", cfg.Console.Port)
				lines = nil
				continue
			}
			if err := con.Exec(line); err != nil {
				fmt.Fprintf(port, "error: %v\n", err)
			}
		}
	}
}

func connectMQTT(c *MQTTConfig) (*touchmqtt.Publisher, func(), error) {
	timeout := time.Duration(c.TimeoutMs) * time.Millisecond
	opts := mqtt.NewClientOptions().
		AddBroker(c.Broker).
		SetClientID(c.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout).
		SetWill(touchmqtt.WillTopic(c.Prefix), "false", c.QoS, true)

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, nil, fmt.Errorf("mqtt connect (broker=%s): timed out", c.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, nil, fmt.Errorf("mqtt connect (broker=%s): %w", c.Broker, err)
	}

	pub := touchmqtt.New(client, touchmqtt.Config{Prefix: c.Prefix, QoS: c.QoS, Timeout: timeout})
	if err := pub.Online(); err != nil {
		client.Disconnect(250)
		return nil, nil, err
	}
	return pub, func() { client.Disconnect(250) }, nil
}
